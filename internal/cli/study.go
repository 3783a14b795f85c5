package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/flashdeck/internal/services/study"
)

const (
	cardPrompt  = "(f)lip (n)ext (p)rev (q)uit > "
	boardPrompt = "<number> flip that card, (q)uit > "
)

func newStudyCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "study <game>",
		Short: "Review a game by flipping its cards",
		Long: `Review a game one card at a time.

Each card shows its question first. Commands, one per line:
  f        flip the current card
  n        next card (past the last card ends the review)
  p        previous card
  <number> jump to that card
  q        quit

With --all every card is shown at once and <number> flips that card.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd.Context()); err != nil {
				return err
			}

			game, err := resolveGame(args[0])
			if err != nil {
				return err
			}

			session, err := study.Start(app.DeckService, game.ID)
			if err != nil {
				return err
			}

			app.Logger.Debug("study started",
				slog.String("game_id", string(game.ID)),
				slog.Int("cards", len(game.Cards)))

			out := newOutput(cmd)
			started := app.Clock.Now()
			if all {
				err = runBoard(cmd.InOrStdin(), out, session)
			} else {
				err = runCards(cmd.InOrStdin(), out, session)
			}
			if err != nil {
				return err
			}

			out.Print(StudySummary{
				Game:     session.Title(),
				Cards:    len(game.Cards),
				Flips:    session.Flips(),
				Finished: session.Done(),
				Duration: formatDuration(app.Clock.Now().Sub(started)),
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show every card at once")

	return cmd
}

// runCards drives the one-card-at-a-time layout until the session ends,
// the user quits or input runs out
func runCards(in io.Reader, out *Output, session *study.Session) error {
	scanner := bufio.NewScanner(in)
	for !session.Done() {
		view, err := newStudyCard(session)
		if err != nil {
			return err
		}
		out.Print(view)
		out.Prompt(cardPrompt)

		if !scanner.Scan() {
			break
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		var cmdErr error
		switch input {
		case "f", "":
			_, cmdErr = session.Flip()
		case "n":
			_, cmdErr = session.Next()
		case "p":
			cmdErr = session.Prev()
		case "q":
			return nil
		default:
			n, err := strconv.Atoi(input)
			if err != nil {
				cmdErr = fmt.Errorf("unknown command %q", input)
			} else {
				cmdErr = session.Jump(n - 1)
			}
		}
		if cmdErr != nil {
			out.PrintError(cmdErr)
		}
	}
	return scanner.Err()
}

// runBoard drives the show-all layout, where any card can be flipped
func runBoard(in io.Reader, out *Output, session *study.Session) error {
	if session.Done() {
		return nil
	}

	scanner := bufio.NewScanner(in)
	cards := session.Cards()
	for {
		out.Print(newStudyBoard(session))
		out.Prompt(boardPrompt)

		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if input == "q" {
			return nil
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(cards) {
			out.PrintError(fmt.Errorf("%w: %q", study.ErrInvalidIndex, input))
			continue
		}
		if _, err := session.Toggle(cards[n-1].Card.ID); err != nil {
			return err
		}
	}
}
