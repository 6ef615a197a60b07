package cmd

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/log"
)

// Check parses documents concurrently and reports each failure with its
// line, column, and the offending source line.
type Check struct {
	Jobs    int      `default:"0"                 help:"Maximum concurrent parses; 0 uses GOMAXPROCS." short:"j"`
	Sources []string `arg:"" help:"Input files or '-' for stdin." name:"source" type:"existingfile"`
}

// checkResult is the outcome of checking one source.
type checkResult struct {
	path  string
	nodes int
	diag  string
	err   error
}

// Run executes the check command. Every source is checked even if an
// earlier one fails; the command fails if any source fails.
func (c *Check) Run(ctx context.Context) error {
	paths := uniqueSources(c.Sources)
	results := make([]checkResult, len(paths))

	limit := c.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = checkSource(gctx, path)

			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var (
		sb     strings.Builder
		failed int
	)

	for _, res := range results {
		if res.err == nil {
			log.DebugContext(ctx, "check passed",
				slog.String("file", res.path),
				slog.Int("nodes", res.nodes))

			continue
		}

		failed++

		sb.WriteString(res.path)
		sb.WriteString(": ")
		sb.WriteString(res.diag)

		if !strings.HasSuffix(res.diag, "\n") {
			sb.WriteByte('\n')
		}
	}

	if _, err := io.WriteString(stdout(ctx), sb.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("checked", len(paths)),
		)
	}

	return nil
}

// checkSource reads and parses one source. Parse results are not cached.
func checkSource(ctx context.Context, path string) checkResult {
	res := checkResult{path: path}

	r, err := open(path)
	if err != nil {
		res.err, res.diag = err, err.Error()

		return res
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		res.err = ErrReadSource.With(slog.String("file", path)).Wrap(err)
		res.diag = res.err.Error()

		return res
	}

	reg, err := lang.ParseString(ctx, string(data), lang.WithLogger(log.Default()))
	if err != nil {
		res.err, res.diag = err, lang.Diagnose(string(data), err)

		return res
	}

	res.nodes = reg.Len()

	return res
}
