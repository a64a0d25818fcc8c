// Package paths provides centralized path handling for relink.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/relink/pkg/errors"
)

// Environment variable names
const (
	// EnvRegistry overrides the registry file location
	EnvRegistry = "RELINK_REGISTRY"

	// EnvDataDir overrides the XDG data directory for relink
	EnvDataDir = "RELINK_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for relink
	EnvConfigDir = "RELINK_CONFIG_DIR"
)

// Default directories and files
const (
	// RelinkDirName is the directory name for relink-specific files
	RelinkDirName = "relink"

	// RegistryFileName is the name of the registry file
	RegistryFileName = "registry.toml"

	// BackupsDirName is the subdirectory holding per-run backup roots
	BackupsDirName = "backups"
)

// Paths provides centralized path management for relink
type Paths interface {
	ConfigDir() string
	DataDir() string
	BackupsRoot() string
	RegistryPath() string
}

type paths struct {
	xdgConfig string
	xdgData   string
}

// New creates a new Paths instance, respecting environment overrides
func New() (Paths, error) {
	p := &paths{}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = ExpandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, RelinkDirName)
	}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = ExpandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, RelinkDirName)
	}

	absConfig, err := filepath.Abs(p.xdgConfig)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to resolve config dir %s", p.xdgConfig)
	}
	p.xdgConfig = absConfig

	absData, err := filepath.Abs(p.xdgData)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to resolve data dir %s", p.xdgData)
	}
	p.xdgData = absData

	return p, nil
}

// ConfigDir returns the relink configuration directory
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// DataDir returns the relink data directory
func (p *paths) DataDir() string {
	return p.xdgData
}

// BackupsRoot returns the directory under which per-run backup
// directories are created
func (p *paths) BackupsRoot() string {
	return filepath.Join(p.xdgData, BackupsDirName)
}

// RegistryPath returns the registry file location, honoring the
// RELINK_REGISTRY override
func (p *paths) RegistryPath() string {
	if reg := os.Getenv(EnvRegistry); reg != "" {
		return ExpandHome(reg)
	}
	return filepath.Join(p.xdgConfig, RegistryFileName)
}

// ExpandHome expands a leading ~ or ~/ to the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
