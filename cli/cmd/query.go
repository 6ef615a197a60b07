package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/log"
)

// Query evaluates an expr-lang expression against a document and prints the
// result in native syntax.
type Query struct {
	Expression string `arg:"" help:"Expression to evaluate, e.g. 'server.port'." name:"expression"`

	source
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) error {
	reg, err := parse(ctx, q.Source)
	if err != nil {
		return err
	}

	result, err := lang.Query(ctx, reg, q.Expression, lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("file", q.Source))
	}

	if _, err := io.WriteString(stdout(ctx), lang.FormatResult(result)+"\n"); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
