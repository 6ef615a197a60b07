package cmd

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/log"
)

// Tokens prints the significant tokens of a document, one per line:
//
//	offset kind text
//
// Text is quoted so that literals and punctuation are unambiguous. The final
// line is the end-of-input token.
type Tokens struct {
	source
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	r, err := open(t.Source)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return ErrReadSource.Wrap(err)
	}

	toks, err := lang.Tokenize(ctx, string(data), lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	var sb strings.Builder

	for _, tok := range toks {
		sb.WriteString(strconv.Itoa(tok.Offset))
		sb.WriteByte(' ')
		sb.WriteString(strings.ReplaceAll(tok.Kind.String(), " ", "-"))

		if tok.Text != "" {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Quote(tok.Text))
		}

		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(stdout(ctx), sb.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
