// FILE: lixenwraith/confmgr/discovery.go
package confmgr

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileDiscoveryOptions configures automatic config file discovery
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// Command-line arguments and the flag to look for in them (e.g. "--config")
	Args    []string
	CLIFlag string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".yaml", ".yml", ".properties", ".toml", ".json"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		Args:          os.Args[1:],
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// discoverFile returns the location of the first config file found.
// An explicit path from the CLI flag or environment variable is returned
// without checking that it exists, so a missing file fails the read.
func discoverFile(fsys afero.Fs, opts FileDiscoveryOptions) (Location, bool) {
	// Check CLI args first (highest priority)
	if opts.CLIFlag != "" {
		for i, arg := range opts.Args {
			if arg == opts.CLIFlag && i+1 < len(opts.Args) {
				return FileLocation(opts.Args[i+1]), true
			}
			if value, ok := strings.CutPrefix(arg, opts.CLIFlag+"="); ok && value != "" {
				return FileLocation(value), true
			}
		}
	}

	// Check environment variable
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return FileLocation(path), true
		}
	}

	// Custom paths first
	searchPaths := append([]string(nil), opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := fsys.Stat(path); err == nil && !info.IsDir() {
				return FileLocation(path), true
			}
		}
	}

	// No file found is not an error
	return Location{}, false
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
