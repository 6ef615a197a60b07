// Package cmd implements the cfgtree subcommands: parse, tokens, fmt, check,
// query, repl, and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. It is also the name of the root entry written
	// to that file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the default REPL history file.
	HistoryIdentifier = "history"
)
