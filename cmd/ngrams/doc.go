// Package main hosts the ngrams CLI entrypoint and command graph.
//
// The root command scans a corpus and writes the six n-gram tables:
//
//	ngrams [flags] <source> <destination> [pattern ...]
//
// Subcommands cover configuration scaffolding (config init, config
// validate), the run history (history, history show, history clear) and
// inspection of exported tables (show). Configuration resolution and logger
// setup live here; the heavy lifting stays in the internal packages.
package main
