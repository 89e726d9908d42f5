package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbattach/internal/extract"
	"github.com/pdiddy/nbattach/internal/manifest"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract image attachments from every notebook under the notebooks directory",
	Long: `Extract walks the notebooks directory, writes each image attachment to the
images directory (spaces in names become underscores), points the markdown
references at the written files, and drops the attachments from the cells.
Notebooks without image attachments are left untouched.

Per-file problems (empty files, invalid JSON, unwritable images) are reported
and the run continues; the command succeeds once the batch has run.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	addExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().String("notebooks-dir", "", "directory scanned recursively for notebooks (default ipynb)")
	cmd.Flags().String("images-dir", "", "directory extracted images are written to (default screenshots)")
	cmd.Flags().String("ref-prefix", "", "path written into rewritten markdown references (default ../screenshots)")
	cmd.Flags().String("extension", "", "notebook file extension (default .ipynb)")
	cmd.Flags().String("backup-suffix", "", "suffix appended to the original notebook's path (default .bak)")
	cmd.Flags().StringSlice("exclude", nil, "directory name globs to skip (e.g. .ipynb_checkpoints)")
	cmd.Flags().Bool("atomic", false, "write the rewritten notebook to a temporary file before swapping it in")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %v: paths are set with flags or the config file", args)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	opts := extract.Options{Status: os.Stdout, Logger: log}

	var (
		store *manifest.Store
		runID string
	)
	if cfg.Manifest.Enabled() {
		store, err = manifest.Open(cfg.Manifest)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err = store.BeginRun(ctx, cfg.ExtractConfig)
		if err != nil {
			return err
		}
		opts.Recorder = store.Recorder(ctx, runID)
	}

	ex := extract.New(cfg.ExtractConfig, opts)
	result := ex.Run()

	if store != nil {
		counts := manifest.RunCounts{
			Updated:   result.Updated,
			Unchanged: result.Unchanged,
			Skipped:   result.Skipped,
			Failed:    result.Failed,
			Images:    result.Images,
		}
		if err := store.FinishRun(ctx, runID, counts); err != nil {
			log.ManifestError("finish run", err)
		} else {
			fmt.Fprintf(os.Stdout, "Manifest run: %s\n", runID)
		}
	}

	if result.HasFailures() {
		fmt.Fprintf(os.Stderr, "%d notebook(s) could not be processed; see messages above\n", result.Failed)
	}
	return nil
}
