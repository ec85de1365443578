// Package config defines the format-agnostic trigger menu model, along with
// the Loader interface implemented by the format-specific adapters.
//
// The `config.Menu` is the single source of truth for the fetcher. Concrete
// loaders for HCL and YAML are provided in separate packages and are merged
// by MultiLoader.
package config
