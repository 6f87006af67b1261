package data

import (
	"path"
	"strings"
	"time"
)

// Kind groups manifest entries into the two install pipelines.
type Kind string

const (
	KindTheme     Kind = "theme"
	KindCharacter Kind = "character"
)

// AssetType is the on-disk format of a bundled asset.
type AssetType string

const (
	AssetPNG  AssetType = "png"
	AssetJSON AssetType = "json"
)

// ManifestEntry describes one bundled asset.
type ManifestEntry struct {
	Name        string    `yaml:"name" json:"name"`
	File        string    `yaml:"file" json:"file"`
	Type        AssetType `yaml:"type" json:"type"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Preview     string    `yaml:"preview,omitempty" json:"preview,omitempty"`
	Kind        Kind      `yaml:"-" json:"kind"`
}

// FileName is the last path element of File, e.g. "characters/a.png" -> "a.png".
func (e ManifestEntry) FileName() string {
	return path.Base(e.File)
}

// Ext returns the file extension without the dot, falling back to the type.
func (e ManifestEntry) Ext() string {
	ext := strings.TrimPrefix(path.Ext(e.File), ".")
	if ext == "" {
		return string(e.Type)
	}
	return ext
}

// Settings are the user's overwrite preferences.
type Settings struct {
	OverwriteCharacters bool `json:"overwriteCharacters"`
	OverwriteThemes     bool `json:"overwriteThemes"`
}

// DefaultSettings mirrors what a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		OverwriteCharacters: false,
		OverwriteThemes:     true,
	}
}

// Overwrite reports the overwrite flag for a kind.
func (s Settings) Overwrite(kind Kind) bool {
	if kind == KindTheme {
		return s.OverwriteThemes
	}
	return s.OverwriteCharacters
}

// WithOverwrite returns a copy of s with kind's overwrite flag set.
func (s Settings) WithOverwrite(kind Kind, overwrite bool) Settings {
	if kind == KindTheme {
		s.OverwriteThemes = overwrite
	} else {
		s.OverwriteCharacters = overwrite
	}
	return s
}

// ImportResult is the outcome of importing one asset.
type ImportResult struct {
	Success bool
	// BaseName is the name the asset asked for; FinalName differs from it
	// when a collision forced a suffix.
	BaseName   string
	FinalName  string
	WasRenamed bool
}

// ImportRecord is a persisted import attempt.
type ImportRecord struct {
	ID         int64
	EntryName  string
	Kind       Kind
	FinalName  string
	Success    bool
	WasRenamed bool
	Error      string
	ImportedAt time.Time
}
