package gcpkit

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/gcs"
)

var gcsCmd = &cobra.Command{
	Use:   "gcs",
	Short: "Cloud Storage helpers",
}

var gcsLsCmd = &cobra.Command{
	Use:   "ls [gs://bucket]",
	Short: "List buckets, or objects in a bucket",
	Long: `List buckets in the project, or objects in a bucket when a gs://
URI is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGCSLs,
}

var gcsLsCriteria string

var gcsCpCmd = &cobra.Command{
	Use:   "cp [src] [dst]",
	Short: "Copy between local paths and gs:// URIs",
	Long: `Copy a file to or from Cloud Storage.

Exactly one of src and dst must be a gs://bucket/object URI; the other is a
local path.`,
	Args: cobra.ExactArgs(2),
	RunE: runGCSCp,
}

func init() {
	rootCmd.AddCommand(gcsCmd)
	gcsCmd.AddCommand(gcsLsCmd)
	gcsCmd.AddCommand(gcsCpCmd)

	gcsLsCmd.Flags().StringVar(&gcsLsCriteria, "contains", "", "Keep only objects whose name contains this substring")
}

// splitURI splits gs://bucket/object into its parts. The object may be empty.
func splitURI(uri string) (bucket, object string, ok bool) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", false
	}
	rest := gcs.URIToID(uri)
	bucket, object, _ = strings.Cut(rest, "/")
	return bucket, object, bucket != ""
}

func runGCSLs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := gcs.New(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if len(args) == 0 {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Project.ID == "" {
			return fmt.Errorf("a project id is required (--project or GOOGLE_CLOUD_PROJECT)")
		}
		buckets, err := client.Buckets(ctx, cfg.Project.ID)
		if err != nil {
			return err
		}
		for _, b := range buckets {
			fmt.Println(gcs.IDToURI(b))
		}
		return nil
	}

	bucket, _, ok := splitURI(args[0])
	if !ok {
		return fmt.Errorf("expected a gs://bucket URI, got %q", args[0])
	}
	objects, err := client.Objects(ctx, bucket, gcsLsCriteria)
	if err != nil {
		return err
	}
	for _, o := range objects {
		fmt.Printf("%10s\t%s\n", o.SizeHuman, o.Name)
	}
	return nil
}

func runGCSCp(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	src, dst := args[0], args[1]

	srcBucket, srcObject, srcRemote := splitURI(src)
	dstBucket, dstObject, dstRemote := splitURI(dst)
	if srcRemote == dstRemote {
		return fmt.Errorf("exactly one of src and dst must be a gs:// URI")
	}

	client, err := gcs.New(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if srcRemote {
		if srcObject == "" {
			return fmt.Errorf("source URI must name an object")
		}
		if err := client.DownloadToFile(ctx, srcBucket, srcObject, dst); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "downloaded gs://%s/%s to %s\n", srcBucket, srcObject, dst)
		return nil
	}

	if dstObject == "" {
		return fmt.Errorf("destination URI must name an object")
	}
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()
	if err := client.Upload(ctx, dstBucket, dstObject, f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "uploaded %s to gs://%s/%s\n", src, dstBucket, dstObject)
	return nil
}
