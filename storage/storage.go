// Package storage owns the two persisted documents of the front-end: the
// flat settings document and the game library document.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var (
	appName     string
	baseDirOver string
)

// Init sets the application data directory name. Must be called before
// any default path is resolved.
func Init(dataDirName string) {
	appName = dataDirName
}

// SetBaseDir overrides the platform data directory. An empty string restores
// platform resolution.
func SetBaseDir(dir string) {
	baseDirOver = dir
}

const (
	settingsFile = "settings.toml"
	libraryFile  = "library.json"
	stagingDir   = "staging"
)

// GetBaseDir returns the base directory for application data.
// The directory name is set by Init(). Example paths:
// - macOS: ~/Library/Application Support/<appName>
// - Linux: ~/.local/share/<appName>
// - Windows: %APPDATA%/<appName>
func GetBaseDir() (string, error) {
	if baseDirOver != "" {
		return baseDirOver, nil
	}

	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		baseDir = filepath.Join(appData, appName)
	default: // Linux and other Unix-like systems
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome != "" {
			baseDir = filepath.Join(dataHome, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = filepath.Join(home, ".local", "share", appName)
		}
	}

	return baseDir, nil
}

// EnsureDirectories creates all necessary directories for the application
func EnsureDirectories() error {
	baseDir, err := GetBaseDir()
	if err != nil {
		return err
	}

	dirs := []string{
		baseDir,
		filepath.Join(baseDir, stagingDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetSettingsPath returns the full path to settings.toml
func GetSettingsPath() (string, error) {
	baseDir, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, settingsFile), nil
}

// GetLibraryPath returns the full path to library.json
func GetLibraryPath() (string, error) {
	baseDir, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, libraryFile), nil
}

// GetStagingRoot returns the directory under which each process creates its
// own scratch area for staged content.
func GetStagingRoot() (string, error) {
	baseDir, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, stagingDir), nil
}

// AtomicWriteFile writes data to path atomically.
// It writes to a uniquely named temporary file in the same directory, then
// renames it over the target, so concurrent writers never share a temp file.
func AtomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to set temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename temp file to target (atomic on most filesystems)
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// AtomicWriteJSON writes data to a JSON file atomically.
func AtomicWriteJSON(path string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return AtomicWriteFile(path, jsonData)
}

// ReadJSON reads and unmarshals a JSON file
func ReadJSON(path string, data interface{}) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(jsonData, data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}
