// Package config provides configuration structures and utilities for nflstats.
// It defines the scrape settings (site, timeouts, page cap, output layout),
// the markup selectors used per statistics level, and the YAML file loader.
package config
