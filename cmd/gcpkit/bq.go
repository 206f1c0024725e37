package gcpkit

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coastwise/gcpkit/pkg/bq"
	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/logger"
)

var bqCmd = &cobra.Command{
	Use:   "bq",
	Short: "BigQuery helpers",
}

var bqDatasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets in the project",
	RunE:  runBQDatasets,
}

var bqInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List every table in the project with its size",
	RunE:  runBQInventory,
}

var bqQueryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Run a SQL query and print the results",
	Args:  cobra.ExactArgs(1),
	RunE:  runBQQuery,
}

var bqQueryCSV bool

func init() {
	rootCmd.AddCommand(bqCmd)
	bqCmd.AddCommand(bqDatasetsCmd)
	bqCmd.AddCommand(bqInventoryCmd)
	bqCmd.AddCommand(bqQueryCmd)

	bqQueryCmd.Flags().BoolVar(&bqQueryCSV, "csv", false, "Print results as CSV")
}

func newBQClient(ctx context.Context) (*bq.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Project.ID == "" {
		return nil, fmt.Errorf("a project id is required (--project or GOOGLE_CLOUD_PROJECT)")
	}
	log := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	return bq.New(ctx, cfg.Project.ID, log)
}

func runBQDatasets(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newBQClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	datasets, err := client.Datasets(ctx)
	if err != nil {
		return err
	}
	for _, ds := range datasets {
		fmt.Printf("%s\t%s\n", ds.ID, ds.Location)
	}
	return nil
}

func runBQInventory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newBQClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	rs, err := client.Inventory(ctx)
	if err != nil {
		return err
	}
	fmt.Print(rs.String())
	return nil
}

func runBQQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newBQClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	rs, summary, err := client.Query(ctx, args[0])
	if err != nil {
		return err
	}

	if bqQueryCSV {
		if err := rs.WriteCSV(os.Stdout); err != nil {
			return err
		}
	} else {
		fmt.Print(rs.String())
	}
	fmt.Fprintf(os.Stderr, "job %s: %d rows in %s (cache hit: %v, %d bytes processed)\n",
		summary.JobID, rs.NumRows(), summary.Elapsed, summary.CacheHit, summary.BytesProcessed)
	return nil
}
