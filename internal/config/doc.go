// Package config loads, normalizes, and validates vidvault configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIDVAULT_ACCESS_SALT (optionally sourced from a .env file). The Config
// type centralizes every knob the CLI needs and derives the library's
// directory layout from a single data_dir, so downstream code never builds
// paths by hand.
package config
