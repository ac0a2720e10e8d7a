package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/retoro-sen/offdroid-update-manager/pkg/manager"
)

// Config represents the complete offdroid configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Output     OutputConfig     `toml:"output"`
	SelfUpdate SelfUpdateConfig `toml:"self_update"`
}

// GeneralConfig contains settings for the package update flow.
type GeneralConfig struct {
	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`

	// DryRun shows what would happen without executing when true.
	DryRun bool `toml:"dry_run"`

	// WriteChangelog persists the list of updated packages to a text file.
	WriteChangelog bool `toml:"write_changelog"`

	// ChangelogDir is where changelog files are written. Empty means the
	// current working directory.
	ChangelogDir string `toml:"changelog_dir"`

	// ChangelogPrefix is the file name prefix of changelog files.
	ChangelogPrefix string `toml:"changelog_prefix"`

	// RecordHistory stores every run in the history database.
	RecordHistory bool `toml:"record_history"`

	// Manager forces a package manager ("apt", "zypper", "dnf", "pacman" or
	// "brew") instead of detecting one. Empty means detect.
	Manager string `toml:"manager"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`
}

// SelfUpdateConfig controls where releases are looked up and which files
// a self-update replaces.
type SelfUpdateConfig struct {
	Enabled bool   `toml:"enabled"`
	Owner   string `toml:"owner"`
	Repo    string `toml:"repo"`
	APIURL  string `toml:"api_url"`

	// Archive selects the release archive: "zipball" or "tarball".
	Archive string `toml:"archive"`

	CheckTimeout    Duration `toml:"check_timeout"`
	DownloadTimeout Duration `toml:"download_timeout"`

	// InstallDir overrides the directory holding the managed files. Empty
	// means the directory of the running executable.
	InstallDir string `toml:"install_dir"`

	// ManagedFiles are replaced by a self-update. An empty entry stands for
	// the running executable's own file name.
	ManagedFiles []string `toml:"managed_files"`

	// ManagedDir is a subdirectory replaced as a whole.
	ManagedDir string `toml:"managed_dir"`
}

// Archive kinds accepted by SelfUpdateConfig.Archive.
const (
	ArchiveZipball = "zipball"
	ArchiveTarball = "tarball"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			AutoConfirm:     false,
			DryRun:          false,
			WriteChangelog:  false,
			ChangelogPrefix: "offdroid_changelog",
			RecordHistory:   true,
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
		},
		SelfUpdate: SelfUpdateConfig{
			Enabled:         true,
			Owner:           "retoro-sen",
			Repo:            "offdroid-update-manager",
			APIURL:          "https://api.github.com",
			Archive:         ArchiveZipball,
			CheckTimeout:    Duration(5 * time.Second),
			DownloadTimeout: Duration(30 * time.Second),
			ManagedFiles:    []string{"", "README.md", "LICENSE"},
			ManagedDir:      "share",
		},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.General.Manager != "" {
		if _, err := manager.ParseKind(c.General.Manager); err != nil {
			return fmt.Errorf("general.manager: %w", err)
		}
	}

	su := c.SelfUpdate
	switch su.Archive {
	case ArchiveZipball, ArchiveTarball:
	default:
		return fmt.Errorf("self_update.archive must be %q or %q, got %q", ArchiveZipball, ArchiveTarball, su.Archive)
	}
	if su.Enabled && (su.Owner == "" || su.Repo == "") {
		return errors.New("self_update.owner and self_update.repo are required when self-update is enabled")
	}
	if su.CheckTimeout < 0 || su.DownloadTimeout < 0 {
		return errors.New("self_update timeouts must not be negative")
	}
	for _, name := range su.ManagedFiles {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("self_update.managed_files entry %q must be a plain file name", name)
		}
	}
	if strings.ContainsAny(su.ManagedDir, `/\`) {
		return fmt.Errorf("self_update.managed_dir %q must be a plain directory name", su.ManagedDir)
	}
	return nil
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}

// ChangelogDirectory returns the directory changelog files are written to.
func (c *Config) ChangelogDirectory() string {
	if c.General.ChangelogDir != "" {
		return ExpandHome(c.General.ChangelogDir)
	}
	return "."
}

// Duration is a time.Duration that reads and writes as a string like "5s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}
