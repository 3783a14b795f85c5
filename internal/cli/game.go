package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/flashdeck/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameRenameCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create an empty game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, err := app.DeckService.CreateGame(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			newOutput(cmd).Print(newGameDetail(game))
			return nil
		},
	}
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			games := app.DeckService.Games()
			result := make([]GameSummary, len(games))
			for i, g := range games {
				result[i] = GameSummary{ID: string(g.ID), Title: g.Title, Cards: len(g.Cards)}
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <game>",
		Short: "Show a game and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, err := resolveGame(args[0])
			if err != nil {
				return err
			}

			newOutput(cmd).Print(newGameDetail(game))
			return nil
		},
	}
}

func newGameRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <game> <title>",
		Short: "Change a game's title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, err := resolveGame(args[0])
			if err != nil {
				return err
			}

			game, err = app.DeckService.RenameGame(cmd.Context(), game.ID, args[1])
			if err != nil {
				return err
			}

			newOutput(cmd).Print(newGameDetail(game))
			return nil
		},
	}
}

func requireLogin(ctx context.Context) error {
	_, err := app.AuthService.Current(ctx)
	return err
}

// resolveGame finds a game by ID, falling back to a case-insensitive title
// match. Titles shared by several games must be referenced by ID.
func resolveGame(ref string) (model.Game, error) {
	if game, err := app.DeckService.Game(model.GameID(ref)); err == nil {
		return game, nil
	}

	var matches []model.Game
	for _, g := range app.DeckService.Games() {
		if strings.EqualFold(g.Title, ref) {
			matches = append(matches, g)
		}
	}

	switch len(matches) {
	case 0:
		return model.Game{}, fmt.Errorf("%w: %s", model.ErrGameNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return model.Game{}, fmt.Errorf("%d games are titled %q, use the game ID", len(matches), ref)
	}
}
