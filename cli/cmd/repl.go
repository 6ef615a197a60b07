package cmd

import (
	"context"

	"github.com/ardnew/cfgtree/cli/cmd/repl"
	"github.com/ardnew/cfgtree/log"
)

// Repl starts an interactive query shell over a document.
type Repl struct {
	History string `default:"${history}" help:"History file; empty keeps history in memory." type:"path"`

	Input string `arg:"" help:"Input file." name:"input" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	reg, err := parse(ctx, r.Input)
	if err != nil {
		return err
	}

	return repl.Run(ctx, reg, repl.NewHistory(r.History), log.Default())
}
