package gcpkit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/gen"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [text]",
	Short: "Summarize a text",
	Long: `Summarize a text in about the requested number of sentences.

The text is taken from the argument, or from stdin when no argument is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

var summarySentences int

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().IntVar(&summarySentences, "sentences", 2, "Approximate number of sentences")
	summaryCmd.Flags().String("model", "", "Chat model to use")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("model") {
		cfg.Summary.Model, _ = cmd.Flags().GetString("model")
	}
	if cfg.Summary.APIKey == "" {
		return fmt.Errorf("summary requires an API key (summary.api_key or OPENAI_API_KEY)")
	}

	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	if text == "" {
		return fmt.Errorf("nothing to summarize")
	}

	summarizer := gen.NewSummarizer(cfg.Summary)
	summary, err := summarizer.Summarize(context.Background(), text, summarySentences)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}
