// Package config resolves and loads gpp's user configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the gpp configuration directory.
//
// Resolution:
//   - $GPP_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/gpp if set (respects XDG on any platform)
//   - %AppData%/gpp on Windows
//   - ~/.config/gpp on macOS and Linux
func Dir() string {
	if dir := os.Getenv("GPP_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gpp")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gpp")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gpp")
}

// Path returns the location of config.yaml, or "" when no directory resolves.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// EnvPath returns the location of the per-user env file.
func EnvPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "env")
}
