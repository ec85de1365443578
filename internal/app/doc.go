// Package app wires the trigger engine together: it loads a menu, validates
// it against the compiled-in algorithm modules, builds the execution sequence
// and drives it over an event file. It is decoupled from any entrypoint; the
// CLI only fills a Config and calls one of the App operations.
package app
