// Package envtree loads environment variables from dotenv files discovered
// by walking from the current directory up through all parent directories.
// Each discovered file is loaded through the dotenv loader, so encrypted
// files are handled transparently.
package envtree

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/signalforge/dotenv"
)

// Config holds the configuration for the environment loader
type Config struct {
	// EnvFileName is the name of the env file to search for (default: ".env")
	EnvFileName string

	// LoadOptions is passed to dotenv.Load for every discovered file
	// (default: dotenv.DefaultOptions())
	LoadOptions *dotenv.Options

	// LogFlags sets the logging flags (DefaultConfig: log.Lshortfile | log.LstdFlags;
	// zero means no flags)
	LogFlags int

	// Silent suppresses all log output
	Silent bool
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		EnvFileName: ".env",
		LoadOptions: dotenv.DefaultOptions(),
		LogFlags:    log.Lshortfile | log.LstdFlags,
		Silent:      false,
	}
}

// Loader handles environment file loading
type Loader struct {
	config *Config
}

// New creates a new Loader with the given configuration
func New(config *Config) *Loader {
	if config == nil {
		config = DefaultConfig()
	} else if config.EnvFileName == "" {
		c := *config
		c.EnvFileName = ".env"
		config = &c
	}
	return &Loader{config: config}
}

// Load searches for environment files and loads them. Files closer to the
// working directory load first, so with default no-override publishing
// their variables win over files higher up the tree.
func (l *Loader) Load() error {
	if !l.config.Silent {
		log.SetFlags(l.config.LogFlags)
	}

	envFiles, err := l.getEnvFilePaths()
	if err != nil {
		return fmt.Errorf("failed to get env file paths: %w", err)
	}

	for _, path := range envFiles {
		if _, err := dotenv.Load(path, l.config.LoadOptions); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if l.config.Silent {
		return nil
	}
	if len(envFiles) > 0 {
		log.Printf("Loaded %d environment file(s): %v", len(envFiles), envFiles)
	} else {
		log.Printf("No %s files found in current or parent directories", l.config.EnvFileName)
	}

	return nil
}

// MustLoad loads environment files and panics on error
func (l *Loader) MustLoad() {
	if err := l.Load(); err != nil {
		panic(err)
	}
}

// getEnvFilePaths searches for env files from the current directory up to the root
func (l *Loader) getEnvFilePaths() ([]string, error) {
	var envFiles []string

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		envPath := filepath.Join(cwd, l.config.EnvFileName)
		if info, err := os.Stat(envPath); err == nil && info.Mode().IsRegular() {
			envFiles = append(envFiles, envPath)
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return envFiles, nil
}

// GetEnvFilePaths returns all environment file paths without loading them
func (l *Loader) GetEnvFilePaths() ([]string, error) {
	return l.getEnvFilePaths()
}

// LoadDefault loads environment files using default configuration
func LoadDefault() error {
	loader := New(nil)
	return loader.Load()
}

// MustLoadDefault loads environment files using default configuration and panics on error
func MustLoadDefault() {
	loader := New(nil)
	loader.MustLoad()
}

// AutoLoad is a convenience function for use in init() functions
// It loads environment files with default settings and logs any errors
func AutoLoad() {
	if err := LoadDefault(); err != nil {
		log.Printf("Warning: failed to auto-load environment files: %v", err)
	}
}
