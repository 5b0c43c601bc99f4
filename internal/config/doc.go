// Package config provides configuration management for pricescout.
//
// Configuration comes from two places: CLI flags populate the Config
// struct, and an optional YAML file (.pricescout) supplies site
// definitions for the scraper, source reliability overrides and
// currency rate overrides. Config values are passed through the
// application via dependency injection rather than global state.
package config
