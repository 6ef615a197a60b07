package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/lang/tree"
	"github.com/ardnew/cfgtree/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer for command output: the kong application's
// stdout when available, os.Stdout otherwise.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is an input document named on the command line.
type source struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" type:"existingfile"`
}

// open opens path for reading; "-" is stdin, which is never closed.
func open(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return file, nil
}

// parse reads and parses the document at path.
func parse(ctx context.Context, path string) (*tree.Registry, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	reg, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("file", path))
	}

	return reg, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources returns paths with every repeated file removed, keeping the
// first occurrence. Paths that cannot be resolved are kept so that opening
// them reports the error. Every "-" after the first is dropped.
func uniqueSources(paths []string) []string {
	var (
		out   = make([]string, 0, len(paths))
		seen  = make(map[fileKey]struct{})
		stdin bool
	)

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				out = append(out, path)
			}

			stdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, path)
	}

	return out
}

// resolveFileKey resolves symlinks in path and returns its device/inode key.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
