package lang

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/cfgtree/lang/tree"
)

// Env returns the environment a query runs against.
//
// Every entry of [ToMap] is visible by name, so for the document
// "server = { port = 80 }" the expression "server.port" yields 80. The
// following are also defined unless a root entry of the same name shadows
// them:
//
//	nodes        []Record, every node in creation order
//	node(id)     the Record with the given id, or nil
//	children(id) []Record, the children of id in order
//	path(id)     the dotted path of id
func Env(reg *tree.Registry) map[string]any {
	recs := Records(reg)

	byID := func(id int) (Record, bool) {
		if id < 1 || id > len(recs) {
			return Record{}, false
		}

		return recs[id-1], true
	}

	env := map[string]any{
		"nodes": recs,
		"node": func(id int) any {
			if r, ok := byID(id); ok {
				return r
			}

			return nil
		},
		"children": func(id int) []Record {
			var out []Record

			for _, r := range recs {
				if int(r.Parent) == id && id != 0 {
					out = append(out, r)
				}
			}

			return out
		},
		"path": func(id int) string {
			if r, ok := byID(id); ok {
				return r.Path
			}

			return ""
		},
	}

	maps.Copy(env, ToMap(reg))

	return env
}

// Compile compiles an expr-lang query against the environment of reg.
func Compile(reg *tree.Registry, source string) (*vm.Program, error) {
	program, err := expr.Compile(source, expr.Env(Env(reg)))
	if err != nil {
		return nil, ErrQueryCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return program, nil
}

// Query compiles and runs an expr-lang expression against reg.
func Query(
	ctx context.Context,
	reg *tree.Registry,
	source string,
	opts ...Option,
) (any, error) {
	o := makeOptions(opts...)

	program, err := Compile(reg, source)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrQueryEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	result, err := vm.Run(program, Env(reg))
	if err != nil {
		return nil, ErrQueryEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	o.logger.DebugContext(ctx, "query",
		slog.String("source", source),
		slog.String("result_type", fmt.Sprintf("%T", result)))

	return result, nil
}

// FormatResult formats a query result in native cfgtree syntax. Maps are
// written as blocks with their keys sorted.
func FormatResult(result any) string {
	return formatResultValue(result)
}

func formatResultValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""

	case bool:
		return strconv.FormatBool(val)

	case int:
		return strconv.Itoa(val)

	case int64:
		return strconv.FormatInt(val, 10)

	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)

	case string:
		if needsQuoting(val) {
			return `"` + Escape(val) + `"`
		}

		return val

	case Record:
		return formatRecord(val)

	case []Record:
		parts := make([]string, len(val))
		for i, r := range val {
			parts[i] = formatRecord(r)
		}

		return strings.Join(parts, "\n")

	case []any:
		return formatSlice(val)

	case map[string]any:
		return formatMap(val)

	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatRecord(r Record) string {
	return "(" + strconv.FormatUint(uint64(r.ID), 10) + ", " +
		strconv.FormatUint(uint64(r.Parent), 10) + ", " +
		r.Name + ", " + r.Data + ")"
}

// needsQuoting reports whether s cannot be written as a bare word.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
			r == '"' || r == '\\' || r == '{' || r == '}' || r == '=' {
			return true
		}
	}

	return false
}

func formatSlice(vals []any) string {
	if len(vals) == 0 {
		return "{}"
	}

	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatResultValue(v)
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}

func formatMap(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}

	keys := slices.Sorted(maps.Keys(m))
	parts := make([]string, 0, len(keys))

	for _, k := range keys {
		parts = append(parts, k+" = "+formatResultValue(m[k]))
	}

	return "{ " + strings.Join(parts, " ") + " }"
}
