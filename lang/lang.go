package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/cfgtree/lang/lexer"
	"github.com/ardnew/cfgtree/lang/parser"
	"github.com/ardnew/cfgtree/lang/token"
	"github.com/ardnew/cfgtree/lang/tree"
	"github.com/ardnew/cfgtree/log"
)

// Option configures tokenizing and parsing.
type Option func(*options)

type options struct {
	logger log.Logger
	cache  bool
}

func makeOptions(opts ...Option) options {
	o := options{cache: true}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger used by the lexer, the parser, and the cache.
// Per-token and per-node records are emitted at trace level.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCache controls whether [ParseReader] consults the parse cache.
// Caching is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) { o.cache = enable }
}

// Tokenize returns the significant tokens of src, ending with one End token.
// A lexical error is returned wrapped in [ErrTokenize]; the underlying
// [*lexer.Error] remains reachable with [errors.As].
func Tokenize(
	ctx context.Context,
	src string,
	opts ...Option,
) ([]token.Token, error) {
	o := makeOptions(opts...)

	return tokenize(ctx, src, o)
}

// ParseString tokenizes and parses src into a node registry. Tokenizing
// completes before parsing begins.
func ParseString(
	ctx context.Context,
	src string,
	opts ...Option,
) (*tree.Registry, error) {
	o := makeOptions(opts...)

	return parse(ctx, src, o)
}

func tokenize(
	ctx context.Context,
	src string,
	o options,
) ([]token.Token, error) {
	toks, err := lexer.Tokenize(src, lexer.WithLogger(o.logger))
	if err != nil {
		return nil, ErrTokenize.Wrap(err)
	}

	o.logger.DebugContext(ctx, "tokenized",
		slog.Int("source_bytes", len(src)),
		slog.Int("tokens", len(toks)))

	return toks, nil
}

func parse(
	ctx context.Context,
	src string,
	o options,
) (*tree.Registry, error) {
	toks, err := tokenize(ctx, src, o)
	if err != nil {
		return nil, err
	}

	reg, err := parser.Parse(toks, parser.WithLogger(o.logger))
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}

	o.logger.DebugContext(ctx, "parsed", slog.Int("nodes", reg.Len()))

	return reg, nil
}
