package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/litguess/internal/app"
)

// runApp opens the store, builds the game, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	g, err := e.newGame(ctx)
	if err != nil {
		return err
	}
	e.logger.Info("starting game", "session", g.SessionID(), "paragraphs", e.corpus.NumParagraphs())

	return app.Run(ctx, app.Deps{
		Game:   g,
		Corpus: e.corpus,
		Events: e.store.EventRepo(),
		Logger: e.logger,
	})
}
