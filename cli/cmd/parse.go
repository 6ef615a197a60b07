package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/log"
)

// Parse prints the node registry of a document, one node per line:
//
//	(id, parent_id, name, data)
type Parse struct {
	Input  string `arg:""              help:"Input file or '-' for stdin."                       name:"input"  type:"existingfile"`
	Output string `arg:"" optional:""  help:"Output file; stdout is used if it cannot be created." name:"output" type:"path"`
}

// Run executes the parse command. Nothing is written unless the whole input
// parses.
func (p *Parse) Run(ctx context.Context) (err error) {
	reg, err := parse(ctx, p.Input)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	if p.Output != "" {
		file, cerr := os.Create(p.Output)
		if cerr != nil {
			log.WarnContext(ctx, "cannot create output file, writing to stdout",
				slog.String("file", p.Output),
				slog.Any("error", cerr),
			)
		} else {
			defer func() {
				if cerr := file.Close(); cerr != nil && err == nil {
					err = ErrWriteOutput.
						With(slog.String("file", p.Output)).
						Wrap(cerr)
				}
			}()

			w = file
		}
	}

	return lang.WriteNodes(w, reg)
}
