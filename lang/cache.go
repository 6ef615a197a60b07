package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/cfgtree/lang/tree"
)

// globalCache stores parse results keyed by the xxh3 hash of the source.
var globalCache sync.Map

// state holds the single parse of one source.
type state struct {
	once sync.Once
	reg  *tree.Registry
	err  error
}

// ParseReader reads all of r and parses it like [ParseString].
//
// Results are cached by content, so identical input is tokenized and parsed
// only once per process. Each caller receives its own clone of the cached
// registry.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*tree.Registry, error) {
	o := makeOptions(opts...)

	// Read-ahead prefetches the next chunk while the previous one is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	if !o.cache {
		return parse(ctx, string(data), o)
	}

	return parseCached(ctx, string(data), o)
}

func parseCached(
	ctx context.Context,
	src string,
	o options,
) (*tree.Registry, error) {
	hash := xxh3.HashString(src)
	key := strconv.FormatUint(hash, 36)

	value, hit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		globalCache.Delete(key)

		return parse(ctx, src, o)
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.reg, entry.err = parse(ctx, src, o)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return entry.reg.Clone(), nil
}

// ClearCache discards all cached parse results.
func ClearCache() {
	globalCache.Clear()
}
