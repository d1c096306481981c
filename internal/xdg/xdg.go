// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

// Package xdg provides XDG Base Directory paths for the identity service.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "identity"

// ConfigDir returns the XDG config directory for the service.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}
