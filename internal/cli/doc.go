// Package cli builds the l1topo-sim command tree. It turns arguments into an
// app.Config, runs one App operation and maps failures to exit codes.
package cli
