package manifest

import "github.com/debloatkit/debloat/internal/catalog"

// File is the object layout of a manifest.
type File struct {
	FormatVersion string `json:"format_version,omitempty"`
	Category      string `json:"category,omitempty"`
	Items         []Item `json:"items"`
}

// Item is one entry as written in a manifest.
type Item struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category,omitempty"`
	Safe            bool    `json:"safe,omitempty"`
	Command         string  `json:"command"`
	RollbackCommand *string `json:"rollback_command,omitempty"`
	MatchPattern    string  `json:"match_pattern,omitempty"`
}

// PresetsFile is the layout of presets.{json,yaml,yml,toml}.
type PresetsFile struct {
	Presets []catalog.Preset `json:"presets"`
}

// Format identifies a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultFormatVersion is assumed for manifests that omit format_version.
const DefaultFormatVersion = "1.0.0"

// SupportedFormatVersions is the semver constraint manifests must satisfy.
const SupportedFormatVersions = ">= 1.0.0, < 2.0.0"
