package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/litguess/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all solved and failed excerpts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintln(cmd.OutOrStdout(), "This erases all progress. Re-run with --yes to confirm.")
			return nil
		}

		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		backend, _, err := e.progressBackend(ctx)
		if err != nil {
			return err
		}
		ps := progress.NewStore(backend, progress.WithLogger(e.logger))
		before := ps.Load(ctx)
		ps.Save(ctx, progress.State{}, progress.AllKeys()...)
		ps.Wait()

		fmt.Fprintf(cmd.OutOrStdout(), "Progress reset (%d solved, %d unsolved cleared).\n",
			len(before.SolvedParagraphIDs), len(before.FailedQuestions))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation")
}
