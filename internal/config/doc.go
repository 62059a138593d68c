// Package config defines the settings driving the update pipeline and provides
// helpers to load, validate and save them in YAML format.
//
// Every field has a sensible default, so the updater runs without any
// configuration file at all.
package config
