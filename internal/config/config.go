package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WatchDir string `toml:"watch_dir"`
	LogDir   string `toml:"log_dir"`
}

// Sorting contains tunables for the event pipeline.
type Sorting struct {
	StabilityTimeoutSeconds int `toml:"stability_timeout_seconds"`
	StabilityPollSeconds    int `toml:"stability_poll_seconds"`
	MoveAttempts            int `toml:"move_attempts"`
	MoveRetryDelaySeconds   int `toml:"move_retry_delay_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for docsort.
//
// Sections by subsystem:
//   - Paths: the watched intake root and log directory
//   - Sorting: stability gate and move retry tunables
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Sorting Sorting `toml:"sorting"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the standard configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/docsort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. When no file exists at
// the resolved location the defaults are returned and exists is false; the
// caller may persist a sample on a best-effort basis.
func Load(path string) (cfg *Config, resolvedPath string, exists bool, err error) {
	loaded := Default()

	resolvedPath, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		raw, readErr := os.ReadFile(resolvedPath)
		if readErr != nil {
			return nil, "", false, fmt.Errorf("read config: %w", readErr)
		}
		if decodeErr := toml.Unmarshal(raw, &loaded); decodeErr != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", decodeErr)
		}
	}

	if err = loaded.normalize(); err != nil {
		return nil, "", false, err
	}
	if err = loaded.Validate(); err != nil {
		return nil, "", false, err
	}
	return &loaded, resolvedPath, exists, nil
}

// resolveConfigPath picks the file to load: an explicit path wins, then the
// default location, then a docsort.toml in the working directory.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := regularFileExists(expanded)
		if err != nil {
			return "", false, err
		}
		return expanded, exists, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	candidates := []string{defaultPath}
	if projectPath, absErr := filepath.Abs("docsort.toml"); absErr == nil {
		candidates = append(candidates, projectPath)
	}

	for _, candidate := range candidates {
		exists, statErr := regularFileExists(candidate)
		if statErr != nil {
			return "", false, statErr
		}
		if exists {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the directories required for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WatchDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}

	switch {
	case pathValue == "~":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		pathValue = home
	case strings.HasPrefix(pathValue, "~/") || strings.HasPrefix(pathValue, `~\`):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		pathValue = filepath.Join(home, pathValue[2:])
	}

	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
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
