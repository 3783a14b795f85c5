package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/flashdeck/internal/model"
)

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Flashcard commands",
		Long: `Flashcard commands.

Cards are referenced by ID or by their 1-based position in the game.`,
	}

	cmd.AddCommand(newCardAddCmd())
	cmd.AddCommand(newCardEditCmd())
	cmd.AddCommand(newCardRemoveCmd())
	cmd.AddCommand(newCardMoveCmd())

	return cmd
}

func newCardAddCmd() *cobra.Command {
	var question, answer string

	cmd := &cobra.Command{
		Use:   "add <game>",
		Short: "Append a card to a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, err := resolveGame(args[0])
			if err != nil {
				return err
			}

			card, err := app.DeckService.AddCard(cmd.Context(), game.ID, question, answer)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(newCardResult(len(game.Cards), card))
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Question side (required)")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "Answer side (required)")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func newCardEditCmd() *cobra.Command {
	var question, answer string

	cmd := &cobra.Command{
		Use:   "edit <game> <card>",
		Short: "Change a card's question or answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, index, err := resolveCard(args[0], args[1])
			if err != nil {
				return err
			}

			card := game.Cards[index]
			if cmd.Flags().Changed("question") {
				card.Question = question
			}
			if cmd.Flags().Changed("answer") {
				card.Answer = answer
			}

			if _, err := app.DeckService.UpdateCard(cmd.Context(), game.ID, card.ID, card.Question, card.Answer); err != nil {
				return err
			}

			newOutput(cmd).Print(newCardResult(index, card))
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "New question side")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "New answer side")
	cmd.MarkFlagsOneRequired("question", "answer")

	return cmd
}

func newCardRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <game> <card>",
		Short: "Delete a card from a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, index, err := resolveCard(args[0], args[1])
			if err != nil {
				return err
			}

			game, err = app.DeckService.RemoveCard(cmd.Context(), game.ID, game.Cards[index].ID)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(newGameDetail(game))
			return nil
		},
	}
}

func newCardMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <game> <card> <position>",
		Short: "Move a card to a 1-based position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, index, err := resolveCard(args[0], args[1])
			if err != nil {
				return err
			}

			to, err := strconv.Atoi(args[2])
			if err != nil || to < 1 {
				return fmt.Errorf("invalid position %q", args[2])
			}

			game, err = app.DeckService.MoveCard(cmd.Context(), game.ID, game.Cards[index].ID, to-1)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(newGameDetail(game))
			return nil
		},
	}
}

// resolveCard finds a card by ID or 1-based position and returns its game
// and index
func resolveCard(gameRef, cardRef string) (model.Game, int, error) {
	game, err := resolveGame(gameRef)
	if err != nil {
		return model.Game{}, 0, err
	}

	if i := game.CardIndex(model.CardID(cardRef)); i >= 0 {
		return game, i, nil
	}
	if n, err := strconv.Atoi(cardRef); err == nil && n >= 1 && n <= len(game.Cards) {
		return game, n - 1, nil
	}
	return model.Game{}, 0, fmt.Errorf("%w: %s", model.ErrCardNotFound, cardRef)
}
