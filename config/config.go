// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: JSON configuration for the accessibility layer.

// Package config loads texelvoice.json. A missing or unreadable file
// yields the defaults; a corrupt file logs and yields the defaults. The
// accessibility layer itself takes its settings by injection, so this
// package is only the file-to-struct seam used by embedding hosts.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// FileName is the config file looked up under the user config dir.
const FileName = "texelvoice.json"

// Config is the on-disk configuration.
type Config struct {
	// MaxRowsToAnnounce caps live region accumulation per burst.
	MaxRowsToAnnounce int `json:"max_rows_to_announce"`

	// ReattachWorkaround enables the live region detach/reattach cycle
	// required on some platforms.
	ReattachWorkaround bool `json:"reattach_workaround"`

	// TranscriptEnabled turns on persistent announcement recording.
	TranscriptEnabled bool `json:"transcript_enabled"`

	// TranscriptPath overrides the transcript database location.
	// Empty means <config dir>/texelvoice/transcript.db.
	TranscriptPath string `json:"transcript_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxRowsToAnnounce:  20,
		ReattachWorkaround: false,
		TranscriptEnabled:  false,
	}
}

// DefaultPath resolves the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "texelvoice", FileName), nil
}

// Load reads the config at path. A missing file is not an error; both
// missing and corrupt files return defaults.
func Load(path string) Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: failed to read %s: %v", path, err)
		}
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("config: failed to parse %s: %v, using defaults", path, err)
		return Default()
	}
	if cfg.MaxRowsToAnnounce <= 0 {
		cfg.MaxRowsToAnnounce = Default().MaxRowsToAnnounce
	}
	return cfg
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
