package gcpkit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Secret Manager helpers",
}

var secretGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Print a secret value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretGet,
}

var secretGetVersion string

var secretSetCmd = &cobra.Command{
	Use:   "set [name] [value]",
	Short: "Store a secret value, creating the secret if needed",
	Long: `Store a secret value as a new version, creating the secret first when
it does not exist yet. The value is taken from the argument, or from stdin
when omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSecretSet,
}

var secretListCmd = &cobra.Command{
	Use:   "list",
	Short: "List secrets in the project",
	RunE:  runSecretList,
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretListCmd)

	secretGetCmd.Flags().StringVar(&secretGetVersion, "version", "latest", "Version to access")
}

func newSecretsClient(ctx context.Context) (*secrets.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Project.ID == "" {
		return nil, fmt.Errorf("a project id is required (--project or GOOGLE_CLOUD_PROJECT)")
	}
	return secrets.New(ctx, cfg.Project.ID)
}

func runSecretGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newSecretsClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	data, err := client.Access(ctx, args[0], secretGetVersion)
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	return nil
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newSecretsClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	name := args[0]
	var payload []byte
	if len(args) == 2 {
		payload = []byte(args[1])
	} else {
		payload, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	// Create is idempotent from the caller's point of view: an existing
	// secret just gets a new version.
	if err := client.Create(ctx, name, nil); err != nil {
		fmt.Fprintln(os.Stderr, "Note:", err)
	}
	version, err := client.AddVersion(ctx, name, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "added version %s to secret %s\n", version, name)
	return nil
}

func runSecretList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newSecretsClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	infos, err := client.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range infos {
		fmt.Printf("%s\t%s\n", s.Name, s.Created.Format("2006-01-02 15:04:05"))
	}
	return nil
}
