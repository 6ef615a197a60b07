package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/lang/token"
	"github.com/ardnew/cfgtree/lang/tree"
	"github.com/ardnew/cfgtree/log"
	"github.com/ardnew/cfgtree/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config namespace undefined")
	}

	fail := func(err error) error {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	reg, err := i.buildConfig(ktx)
	if err != nil {
		return fail(err)
	}

	// An empty block does not parse, so the file could never be loaded.
	if reg.Len() == 1 {
		return fail(ErrNoEntries)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return fail(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fail(cerr)
		}
	}()

	if err := lang.Format(file, reg, defaultConfigIndent); err != nil {
		return fail(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("entries", reg.Len()-1),
	)

	return nil
}

// ignoredFlag reports whether a flag is left out of the generated file.
func ignoredFlag(flag *kong.Flag) bool {
	if flag.Hidden {
		return true
	}

	return slices.ContainsFunc(
		[]string{"help", "version", profile.Tag},
		func(s string) bool { return strings.HasPrefix(flag.Name, s) },
	)
}

// buildConfig returns a registry with a root block named [ConfigIdentifier]
// holding one entry per flag that has a value.
func (i *Init) buildConfig(ktx *kong.Context) (*tree.Registry, error) {
	reg := tree.New()

	root := reg.Root().ID
	if err := reg.SetName(root, ConfigIdentifier, 0); err != nil {
		return nil, err
	}

	for _, flag := range ktx.Model.Flags {
		if ignoredFlag(flag) {
			continue
		}

		kind, data, ok := flagScalar(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		id, err := reg.Add(root)
		if err != nil {
			return nil, err
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")
		if err := reg.SetName(id, name, 0); err != nil {
			return nil, err
		}

		if err := reg.SetData(id, kind, data); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// flagScalar converts a flag value to node data. Non-negative integers are
// written as integers; every other value is written as an escaped literal.
// It reports false for unset values and empty strings.
func flagScalar(val any) (token.Kind, string, bool) {
	switch v := val.(type) {
	case nil:
		return token.Invalid, "", false

	case int:
		if v >= 0 {
			return token.Integer, strconv.Itoa(v), true
		}

		return token.Literal, strconv.Itoa(v), true

	case int64:
		if v >= 0 {
			return token.Integer, strconv.FormatInt(v, 10), true
		}

		return token.Literal, strconv.FormatInt(v, 10), true

	case uint:
		return token.Integer, strconv.FormatUint(uint64(v), 10), true

	case uint64:
		return token.Integer, strconv.FormatUint(v, 10), true

	case bool:
		return token.Literal, strconv.FormatBool(v), true

	case string:
		if v == "" {
			return token.Invalid, "", false
		}

		return token.Literal, lang.Escape(v), true

	default:
		s := fmt.Sprint(v)
		if s == "" {
			return token.Invalid, "", false
		}

		return token.Literal, lang.Escape(s), true
	}
}
