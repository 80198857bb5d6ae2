package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of the library.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	BuildDir string `toml:"build_dir"`
	LogDir   string `toml:"log_dir"`
}

// Access contains the key-derivation parameters for restricted video tokens.
//
// The iteration count is not stored alongside issued tokens: raising it
// invalidates every previously rendered access token until the next build.
type Access struct {
	Salt       string `toml:"salt"`
	Iterations int    `toml:"iterations"`
}

// Thumbnails contains configuration for thumbnail extraction.
type Thumbnails struct {
	Height          int    `toml:"height"`
	HashPrefixChars int    `toml:"hash_prefix_chars"`
	FfmpegBinary    string `toml:"ffmpeg_binary"`
	FfprobeBinary   string `toml:"ffprobe_binary"`
}

// Tagging contains configuration for batch preparation.
type Tagging struct {
	PartSize int `toml:"part_size"`
}

// Device contains configuration for pulling media off MTP mounts.
type Device struct {
	MediaSubdir string `toml:"media_subdir"`
}

// Reencode contains the thresholds above which a stored video is reported
// as a re-encode candidate.
type Reencode struct {
	MaxLines        int     `toml:"max_lines"`
	MaxFPS          float64 `toml:"max_fps"`
	MaxMiBPerSecond float64 `toml:"max_mib_per_second"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidvault.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Access     Access     `toml:"access"`
	Thumbnails Thumbnails `toml:"thumbnails"`
	Tagging    Tagging    `toml:"tagging"`
	Device     Device     `toml:"device"`
	Reencode   Reencode   `toml:"reencode"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vidvault/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A `.env` file in the
// working directory is honoured before environment overrides are applied.
func Load(path string) (*Config, error) {
	// Secrets such as the access salt usually live in .env, not the TOML.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidvault.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// VideosDir is the canonical content-addressed video store.
func (c *Config) VideosDir() string {
	return filepath.Join(c.Paths.DataDir, "videos")
}

// TaggingDir holds the pending part-N batch directories.
func (c *Config) TaggingDir() string {
	return filepath.Join(c.Paths.DataDir, "tagging_in_progress")
}

// NewFilesDir receives raw copies pulled from devices, before triage.
func (c *Config) NewFilesDir() string {
	return filepath.Join(c.Paths.DataDir, "new_files")
}

// TriagedDir holds the videos selected for tagging.
func (c *Config) TriagedDir() string {
	return filepath.Join(c.Paths.DataDir, "triaged")
}

// LedgerPath is the authoritative tag catalog.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.DataDir, "all_tags.txt")
}

// RestrictionsPath is the declarative access rule file.
func (c *Config) RestrictionsPath() string {
	return filepath.Join(c.Paths.DataDir, "restrictions.json")
}

// CopiedFilesPath records which device files were already pulled.
func (c *Config) CopiedFilesPath() string {
	return filepath.Join(c.Paths.DataDir, "copied_files.json")
}

// BuildDir is the root of the rendered artifact tree.
func (c *Config) BuildDir() string {
	return c.Paths.BuildDir
}

// BuildVideosDir mirrors the store inside the build tree.
func (c *Config) BuildVideosDir() string {
	return filepath.Join(c.Paths.BuildDir, "videos")
}

// ThumbnailsDir holds the generated thumbnails inside the build tree.
func (c *Config) ThumbnailsDir() string {
	return filepath.Join(c.Paths.BuildDir, "thumbnails")
}

// LogDir is where NewFromConfig duplicates log output.
func (c *Config) LogDir() string {
	return c.Paths.LogDir
}

// EnsureDirectories creates every directory the workflows expect.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		c.VideosDir(),
		c.TaggingDir(),
		c.NewFilesDir(),
		c.TriagedDir(),
		c.Paths.BuildDir,
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
