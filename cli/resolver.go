package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/lang/tree"
	"github.com/ardnew/cfgtree/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads config files
// written in the cfgtree language.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config")
//
// The file must hold a single block whose name is the given name. Its
// scalar entries become flag values:
//
//	config = {
//	  log_level = "debug"
//	  log = { format = "json" }
//	}
//
// applies --log-level=debug and --log-format=json. Underscores and nested
// blocks both map to hyphens in flag names. Integers are passed to kong in
// decimal. A file that does not parse or has no such block resolves nothing.
//
// Command-line flags override config file values.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		reg, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring config file", slog.Any("error", err))

			return config{}, nil
		}

		root := reg.Root()
		if root.Name != name || root.HasData() {
			return config{}, nil
		}

		cfg := config{}
		cfg.collect(reg, root.ID, "")

		return cfg, nil
	}
}

// config implements [kong.Resolver] over flattened flag names.
type config map[string]string

// collect adds the scalar descendants of id, naming each by its path below
// id joined with hyphens.
func (c config) collect(reg *tree.Registry, id tree.ID, prefix string) {
	for _, child := range reg.Children(id) {
		n, ok := reg.Node(child)
		if !ok {
			continue
		}

		key := flagName(prefix + n.Name)

		if !n.HasData() {
			c.collect(reg, n.ID, key+"-")

			continue
		}

		switch v := lang.Scalar(n).(type) {
		case int64:
			c[key] = strconv.FormatInt(v, 10)
		case string:
			c[key] = v
		}
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flagName(flag.Name)]; ok {
		return value, nil
	}

	// Not found: kong falls back to the default.
	return nil, nil
}

// flagName normalizes a cfgtree symbol to a kong flag name.
func flagName(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}
