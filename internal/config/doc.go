// Package config loads and validates verso configuration.
//
// Configuration files may be TOML or YAML, selected by file extension.
// A missing file yields the defaults. Environment variables prefixed
// with VERSO_ override individual values after file parsing.
//
// Basic usage:
//
//	cfg, err := config.Load("verso.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	policy := cfg.GroupPolicy()
//
// Live reload is available through Watcher, which monitors the file
// with fsnotify and delivers debounced reloads:
//
//	w, err := config.NewWatcher("verso.toml")
//	for cfg := range w.Reloads() {
//		apply(cfg)
//	}
package config
