// Package config provides configuration management for artworker.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Validation of user supplied values
//   - Conversion to the option types of other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Cards are written to ~/Pictures/Artworker
//	// The US storefront is searched
//	// Palettes have 5 colors
//
// # Loading from File
//
//	settings, err := config.Load(afero.NewOsFs(), config.DefaultPath())
//	if err != nil {
//	    // Malformed JSON or invalid values. A missing file yields the defaults.
//	}
//
// # Saving Settings
//
//	settings.Country = "JP"
//	err := settings.Save(afero.NewOsFs(), config.DefaultPath())
//
// # Configuration Options
//
// Settings includes options for:
//   - Output location and file naming
//   - Catalog storefront and endpoints
//   - Template and font lookup
//   - Palette extraction
//   - Embedded artwork resizing
package config
