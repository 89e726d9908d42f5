package types

// ExtractConfig holds settings for a single extraction run. The extractor
// receives it explicitly; nothing in the pipeline reads process-wide paths.
type ExtractConfig struct {
	// NotebooksDir is the root scanned recursively for notebooks (default "ipynb").
	NotebooksDir string `json:"notebooks_dir" yaml:"notebooks_dir" mapstructure:"notebooks_dir"`

	// ImagesDir is the directory extracted images are written to (default "screenshots").
	// It is created on demand.
	ImagesDir string `json:"images_dir" yaml:"images_dir" mapstructure:"images_dir"`

	// ImageRefPrefix is the relative path written into rewritten markdown
	// references (default "../screenshots").
	ImageRefPrefix string `json:"image_ref_prefix" yaml:"image_ref_prefix" mapstructure:"image_ref_prefix"`

	// Extension selects which files are treated as notebooks (default ".ipynb").
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension"`

	// BackupSuffix is appended to the notebook path to name the backup (default ".bak").
	BackupSuffix string `json:"backup_suffix" yaml:"backup_suffix" mapstructure:"backup_suffix"`

	// Exclude lists glob patterns matched against directory base names; matching
	// directories are not descended.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" mapstructure:"exclude"`

	// AtomicWrite writes the rewritten notebook to a temporary file before the
	// original is moved to its backup path.
	AtomicWrite bool `json:"atomic_write" yaml:"atomic_write" mapstructure:"atomic_write"`
}

// ManifestConfig holds settings for the optional SQLite extraction ledger.
type ManifestConfig struct {
	// Path is the SQLite database file. Empty disables the manifest.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Enabled reports whether a manifest path is configured.
func (c ManifestConfig) Enabled() bool {
	return c.Path != ""
}

// Config groups all settings read from the config file, environment, and flags.
type Config struct {
	ExtractConfig `yaml:",inline" mapstructure:",squash"`

	Manifest ManifestConfig `json:"manifest" yaml:"manifest" mapstructure:"manifest"`

	// LogLevel is one of debug, info, warn, error (default "info").
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

const (
	DefaultNotebooksDir   = "ipynb"
	DefaultImagesDir      = "screenshots"
	DefaultImageRefPrefix = "../screenshots"
	DefaultExtension      = ".ipynb"
	DefaultBackupSuffix   = ".bak"
)

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c ExtractConfig) WithDefaults() ExtractConfig {
	if c.NotebooksDir == "" {
		c.NotebooksDir = DefaultNotebooksDir
	}
	if c.ImagesDir == "" {
		c.ImagesDir = DefaultImagesDir
	}
	if c.ImageRefPrefix == "" {
		c.ImageRefPrefix = DefaultImageRefPrefix
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.BackupSuffix == "" {
		c.BackupSuffix = DefaultBackupSuffix
	}
	return c
}
