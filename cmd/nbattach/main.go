// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nbattach CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbattach/internal/logger"
	"github.com/pdiddy/nbattach/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the diagnostic logger, configured before any command runs.
var log = logger.New(os.Stderr)

// rootCmd is the base command. Run without a subcommand it extracts
// attachments using the configured paths.
var rootCmd = &cobra.Command{
	Use:   "nbattach",
	Short: "Move embedded notebook image attachments into image files",
	Long: `nbattach scans a directory tree for notebooks, writes every base64 image
attachment found in markdown cells to an images directory, rewrites the
markdown references to the extracted files, and removes the attachment data
from the notebook. Rewritten notebooks keep their original under a backup
suffix.

Paths come from nbattach.yaml, NBATTACH_* environment variables (a .env file
is loaded when present), or flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		level, err := logger.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		log = logger.NewWithLevel(os.Stderr, level)
		return nil
	},
	RunE: runExtract,
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"notebooks-dir": "notebooks_dir",
	"images-dir":    "images_dir",
	"ref-prefix":    "image_ref_prefix",
	"extension":     "extension",
	"backup-suffix": "backup_suffix",
	"exclude":       "exclude",
	"atomic":        "atomic_write",
	"manifest":      "manifest.path",
	"log-level":     "log_level",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nbattach.yaml or ~/.config/nbattach/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().String("manifest", "", "SQLite manifest recording extracted images (disabled when empty)")
	addExtractFlags(rootCmd)
}

func initConfig() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nbattach")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbattach"))
		}
	}

	viper.SetDefault("notebooks_dir", types.DefaultNotebooksDir)
	viper.SetDefault("images_dir", types.DefaultImagesDir)
	viper.SetDefault("image_ref_prefix", types.DefaultImageRefPrefix)
	viper.SetDefault("extension", types.DefaultExtension)
	viper.SetDefault("backup_suffix", types.DefaultBackupSuffix)
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("atomic_write", false)
	viper.SetDefault("manifest.path", "")
	viper.SetDefault("log_level", "info")

	viper.SetEnvPrefix("NBATTACH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds the flags cmd understands to their config keys.
func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}
	return nil
}

// loadConfig returns the configuration merged from defaults, config file,
// environment, and the flags bound before the command ran.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.ExtractConfig = cfg.ExtractConfig.WithDefaults()
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
