package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/flashdeck/internal/config"
	"github.com/mcoot/flashdeck/internal/events"
	"github.com/mcoot/flashdeck/internal/factory"
	"github.com/mcoot/flashdeck/internal/model"
)

// skipAppAnnotation marks commands that run without opening storage
const skipAppAnnotation = "flashdeck/skip-app"

// Opener builds the application for one command invocation and returns a
// cleanup func that releases it
type Opener func(opts *Options, stderr io.Writer) (*factory.App, func() error, error)

var (
	opts    *Options
	app     *factory.App
	cleanup func() error
)

// NewRootCmd creates the root command backed by the configured storage
func NewRootCmd() *cobra.Command {
	return newRootCmd(openConfiguredApp)
}

func newRootCmd(open Opener) *cobra.Command {
	opts = DefaultOptions()
	app = nil
	cleanup = nil

	rootCmd := &cobra.Command{
		Use:   "flashdeck",
		Short: "Flashcard decks with a daily login streak",
		Long: `flashdeck keeps question/answer flashcards grouped into games.

Register an account, log in once per day to keep your streak going,
build games card by card and study them by flipping each card over.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			a, closeFn, err := open(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			app, cleanup = a, closeFn

			if opts.Verbose {
				logEvents(app)
			}

			// Resume the persisted session, if any
			if _, err := app.AuthService.Restore(cmd.Context()); err != nil && !errors.Is(err, model.ErrNotLoggedIn) {
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file path (env: FLASHDECK_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", opts.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newCardCmd())
	rootCmd.AddCommand(newStudyCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// skipsApp reports whether cmd runs without storage: cobra's own help and
// completion commands, and anything annotated with skipAppAnnotation
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
		if c.Annotations[skipAppAnnotation] == "true" {
			return true
		}
	}
	return false
}

// openConfiguredApp loads config and opens the storage it names
func openConfiguredApp(opts *Options, stderr io.Writer) (*factory.App, func() error, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	a, err := factory.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a, a.Close, nil
}

// logEvents traces every change notification at debug level
func logEvents(a *factory.App) {
	a.Events.Subscribe(func(e events.Event) {
		a.Logger.Debug("event",
			slog.String("kind", string(e.Kind)),
			slog.String("username", e.Username),
			slog.String("game_id", e.GameID))
	})
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(opts.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// run executes the command tree and releases the app however it exits
func run(cmd *cobra.Command) error {
	err := cmd.Execute()
	if cleanup != nil {
		if cerr := cleanup(); err == nil {
			err = cerr
		}
		cleanup = nil
	}
	return err
}

// Execute runs the root command
func Execute() {
	if err := run(NewRootCmd()); err != nil {
		NewOutput(opts.Output, os.Stdout, os.Stderr).PrintError(err)
		os.Exit(1)
	}
}
