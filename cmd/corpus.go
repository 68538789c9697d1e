package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/litguess/internal/authoring"
	"github.com/abhisek/litguess/internal/config"
	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/llm"
	"github.com/abhisek/litguess/internal/store"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and curate the book corpus",
}

var corpusValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a corpus file (or the embedded corpus) for errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		c, err := corpus.Load(path)
		if err != nil {
			var ve *corpus.ValidationError
			if errors.As(err, &ve) {
				fmt.Fprintln(cmd.ErrOrStderr(), ve.Error())
				return fmt.Errorf("corpus is invalid")
			}
			return err
		}

		name := path
		if name == "" {
			name = "embedded corpus"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: version %s, %d books, %d paragraphs: OK\n",
			name, c.Version(), len(c.Books()), c.NumParagraphs())

		counts := map[corpus.Difficulty]int{}
		for _, p := range c.Paragraphs() {
			counts[p.Difficulty]++
		}
		for _, d := range corpus.AllDifficulties() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %d\n", d, counts[d])
		}
		return nil
	},
}

var corpusSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search books by title or author, as the answer box does",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCorpus()
		if err != nil {
			return err
		}
		books := c.Search(strings.Join(args, " "))
		if len(books) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching works.")
			return nil
		}
		for _, b := range books {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s  %s · %s\n", b.ID, b.Title, b.Author)
		}
		return nil
	},
}

var corpusSuggestCmd = &cobra.Command{
	Use:   "suggest <paragraph-id>",
	Short: "Ask an LLM to propose distractor books for a paragraph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(os.Stderr, cfg.LogLevel)

		c, err := corpus.Load(cfg.CorpusPath)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		provider, err := llm.NewProvider(ctx, llm.ConfigFromEnv(), st.EventRepo(), logger)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		acfg := authoring.DefaultConfig()
		if n, _ := cmd.Flags().GetInt("count"); n > 0 {
			acfg.Count = n
		}
		sug, err := authoring.NewSuggester(provider, c, acfg, logger).Suggest(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			p, _ := c.Paragraph(args[0])
			p = sug.Apply(p)
			if sug.Difficulty.Valid() {
				p.Difficulty = sug.Difficulty
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		fmt.Fprintf(out, "Paragraph %s\n", sug.ParagraphID)
		fmt.Fprintf(out, "Difficulty: %s (suggested %s)\n", sug.CurrentDifficulty, sug.Difficulty)
		if sug.Rationale != "" {
			fmt.Fprintf(out, "Rationale:  %s\n", sug.Rationale)
		}
		fmt.Fprintln(out)
		if len(sug.Accepted) == 0 {
			fmt.Fprintln(out, "No usable distractors proposed.")
		}
		for _, b := range sug.Accepted {
			fmt.Fprintf(out, "  + %-24s %s · %s\n", b.ID, b.Title, b.Author)
		}
		for _, r := range sug.Rejected {
			fmt.Fprintf(out, "  - %-24s (%s)\n", r.BookID, r.Reason)
		}
		return nil
	},
}

// loadCorpus loads the corpus named by LITGUESS_CORPUS, or the embedded one.
func loadCorpus() (*corpus.Corpus, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return corpus.Load(cfg.CorpusPath)
}

func init() {
	corpusSuggestCmd.Flags().IntP("count", "n", 0, "Maximum distractors to propose")
	corpusSuggestCmd.Flags().Bool("json", false, "Print the updated paragraph as JSON")

	corpusCmd.AddCommand(corpusValidateCmd)
	corpusCmd.AddCommand(corpusSearchCmd)
	corpusCmd.AddCommand(corpusSuggestCmd)
}
