package gcpkit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coastwise/gcpkit"
	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/logger"
)

var embedCmd = &cobra.Command{
	Use:   "embed [text...]",
	Short: "Embed one or more texts",
	Long: `Embed one or more texts and print the vectors as JSON.

Texts come from the arguments, or one per line on stdin when no arguments
are given. A single text prints one vector. Multiple texts are batched
through the embedding client; rows that could not be embedded after all
retries are all-zero.`,
	Args: cobra.ArbitraryArgs,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().String("provider", "", "Embedding provider (vertex, openai)")
	embedCmd.Flags().String("model", "", "Embedding model")
	embedCmd.Flags().Bool("verbose", false, "Log every retry attempt")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("provider") {
		cfg.Embedding.Provider, _ = cmd.Flags().GetString("provider")
	}
	if cmd.Flags().Changed("model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Embedding.Verbose, _ = cmd.Flags().GetBool("verbose")
	}

	texts := args
	if len(texts) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				texts = append(texts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}
	if len(texts) == 0 {
		return fmt.Errorf("nothing to embed")
	}

	log := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	ctx := context.Background()

	client, err := gcpkit.NewEmbeddingClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding client: %w", err)
	}
	defer client.Close()

	enc := json.NewEncoder(os.Stdout)

	if len(texts) == 1 {
		vec, err := client.EmbedOne(ctx, texts[0])
		if err != nil {
			return err
		}
		return enc.Encode(vec)
	}

	m, err := client.EmbedMany(ctx, texts)
	if err != nil {
		return err
	}
	if zero := m.ZeroRows(); len(zero) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d of %d texts could not be embedded (rows %v)\n",
			len(zero), m.Rows(), zero)
	}
	rows := make([][]float32, m.Rows())
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return enc.Encode(rows)
}
