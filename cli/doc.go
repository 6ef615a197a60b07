// Package cli contains the command line interface for cfgtree.
//
// # Usage
//
// Every command reads one document, from a file or from stdin when the
// source is "-":
//
//	cfgtree parse app.cfg             # node registry, one node per line
//	cfgtree tokens app.cfg            # significant tokens
//	cfgtree fmt yaml app.cfg          # convert (native, nodes, json, yaml, toml, msgpack, tree)
//	cfgtree check -j 4 *.cfg          # report syntax errors with line and column
//	cfgtree query app.server.port app.cfg
//	cfgtree repl app.cfg              # interactive queries with completion
//	cfgtree init                      # write current flag values as config
//
// parse is the default command, so "cfgtree app.cfg" prints the registry.
//
// # Configuration
//
// Flag defaults are read from the config file in the user configuration
// directory. The file is itself a cfgtree document with a single root block
// named config:
//
//	config = {
//	  log_level = "debug"
//	  log = { format = "json" }
//	}
//
// Underscores and nested blocks both map to hyphens in flag names. A file
// that does not parse is ignored with a warning. A config.json file beside
// it is read too. Command-line flags override both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o cfgtree .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
