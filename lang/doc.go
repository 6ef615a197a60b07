// Package lang reads cfgtree documents and converts them to other forms.
//
// A cfgtree document is a single nested entry:
//
//	server = {
//	  host = "localhost"
//	  port = 8080
//	  tls = { cert = "a.pem" key = "a.key" }
//	}
//
// Names are runs of ASCII letters, digits, and underscores. A value is an
// integer (decimal, or hexadecimal with a 0x prefix), a double-quoted literal
// in which a backslash escapes the next byte, or a block of entries enclosed
// in braces. Whitespace and newlines only separate tokens.
//
// # Pipeline
//
// [Tokenize] runs the lexer in package lexer and [ParseString] feeds its
// tokens to the parser in package parser, which builds a [tree.Registry] of
// nodes. Each node records its id, the id of its parent, its name, and, for
// scalar entries, its data. The root has id 1 and parent 0.
//
// [ParseReader] reads input through a read-ahead buffer and caches the parse
// of each distinct source, handing every caller an independent clone.
//
// # Output
//
// The registry can be written as node lines ([WriteNodes]), native syntax
// ([Format]), JSON records ([FormatJSON]), YAML ([FormatYAML]), TOML
// ([FormatTOML]), MessagePack ([FormatMsgPack]), or a rendered tree
// ([RenderTree]). [Query] evaluates expr-lang expressions against it.
//
// # Errors
//
// Every error returned by this package is derived from one of the sentinel
// [*Error] values and matches it under [errors.Is]. Lexer and parser errors
// keep their source offset, which [Diagnose] turns into a line and column.
package lang
