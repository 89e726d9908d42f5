// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbattach/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the extraction manifest (runs, images, collisions, export)",
	Long: `Manifest reads the SQLite ledger written when --manifest (or manifest.path
in the config file) is set. Subcommands default to the latest run; pass --run
to select another.`,
}

var manifestRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded extraction runs",
	Args:  cobra.NoArgs,
	RunE:  runManifestRuns,
}

var manifestImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List images written by a run",
	Args:  cobra.NoArgs,
	RunE:  runManifestImages,
}

var manifestCollisionsCmd = &cobra.Command{
	Use:   "collisions",
	Short: "List image files written by more than one attachment in a run",
	Long: `Collisions lists output files that several attachments mapped to. Only the
last writer's bytes remain on disk; nbattach never renames to avoid this.`,
	Args: cobra.NoArgs,
	RunE: runManifestCollisions,
}

var manifestExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a run's images and collisions as YAML or JSON to stdout",
	Args:  cobra.NoArgs,
	RunE:  runManifestExport,
}

func init() {
	for _, c := range []*cobra.Command{manifestImagesCmd, manifestCollisionsCmd, manifestExportCmd} {
		c.Flags().String("run", "", "run ID (default: latest run)")
	}
	manifestExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	manifestCmd.AddCommand(manifestRunsCmd, manifestImagesCmd, manifestCollisionsCmd, manifestExportCmd)
	rootCmd.AddCommand(manifestCmd)
}

func openManifest() (*manifest.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Manifest.Enabled() {
		return nil, fmt.Errorf("no manifest configured: pass --manifest or set manifest.path")
	}
	return manifest.Open(cfg.Manifest)
}

func runManifestRuns(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-19s  %7s  %9s  %7s  %6s  %6s\n",
		"Run", "Started", "Updated", "Unchanged", "Skipped", "Failed", "Images")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-19s  %7d  %9d  %7d  %6d  %6d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime),
			r.Counts.Updated, r.Counts.Unchanged, r.Counts.Skipped, r.Counts.Failed, r.Counts.Images)
	}
	return nil
}

func runManifestImages(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetString("run")
	images, err := store.Images(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		fmt.Println("No images recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-12s  %9s  %-11s  %s\n", "File", "Type", "Bytes", "Size", "Notebook")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, img := range images {
		dims := "-"
		if img.Width > 0 {
			dims = fmt.Sprintf("%dx%d", img.Width, img.Height)
		}
		fmt.Fprintf(os.Stdout, "%-40s  %-12s  %9d  %-11s  %s\n",
			img.File, img.MIMEType, img.Size, dims, img.Notebook)
	}
	return nil
}

func runManifestCollisions(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetString("run")
	collisions, err := store.Collisions(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(collisions) == 0 {
		fmt.Println("No collisions.")
		return nil
	}
	for _, c := range collisions {
		fmt.Println(c.File)
		for _, src := range c.Sources {
			fmt.Printf("  %s\n", src)
		}
	}
	return nil
}

func runManifestExport(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetString("run")
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "yaml":
		return store.ExportYAML(context.Background(), runID, os.Stdout)
	case "json":
		return store.ExportJSON(context.Background(), runID, os.Stdout)
	}
	return fmt.Errorf("unknown format %q: use yaml or json", format)
}
