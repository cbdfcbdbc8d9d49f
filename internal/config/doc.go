// SPDX-License-Identifier: MPL-2.0

// Package config handles buildplan configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the --config path, else config.cue in the
// platform config directory ($XDG_CONFIG_HOME/buildplan on Linux,
// ~/Library/Application Support/buildplan on macOS, %APPDATA%\buildplan on
// Windows), else ./config.cue. Files are validated against the embedded
// #Config schema (config_schema.cue). BUILDPLAN_* environment variables
// override file values and command-line flags override both.
package config
