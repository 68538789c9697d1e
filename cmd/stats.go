package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		st := progress.NewStore(backend, progress.WithLogger(e.logger)).Load(ctx)

		rs, err := e.store.EventRepo().RoundStats(ctx)
		if err != nil {
			return fmt.Errorf("query round stats: %w", err)
		}

		out := cmd.OutOrStdout()
		total := e.corpus.NumParagraphs()
		fmt.Fprintf(out, "Works uncovered:   %d / %d\n", len(st.SolvedParagraphIDs), total)
		fmt.Fprintf(out, "To revisit:        %d\n", len(st.FailedQuestions))
		fmt.Fprintf(out, "Questions served:  %d\n", st.QuestionCount)
		fmt.Fprintln(out)

		if rs.Answered == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}
		fmt.Fprintf(out, "Answers recorded:  %d\n", rs.Answered)
		fmt.Fprintf(out, "Accuracy:          %.0f%%\n", rs.Accuracy()*100)
		fmt.Fprintf(out, "Best streak:       %d\n", rs.BestStreak)
		fmt.Fprintf(out, "Best run score:    %d\n", rs.BestScore)
		fmt.Fprintf(out, "Sessions:          %d\n", rs.SessionsCount)
		if !rs.LastAnswerAt.IsZero() {
			fmt.Fprintf(out, "Last answer:       %s\n", rs.LastAnswerAt.Local().Format("2006-01-02 15:04"))
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-10s  %8s  %8s\n", "Difficulty", "Correct", "Answered")
		fmt.Fprintln(out, strings.Repeat("─", 30))
		for _, d := range corpus.AllDifficulties() {
			ds, ok := rs.ByDifficulty[string(d)]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%-10s  %8d  %8d\n", d, ds.Correct, ds.Answered)
		}
		return nil
	},
}
