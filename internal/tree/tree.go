// Package tree materializes entries of the document API on the local disk.
// Folders are walked depth first, one transport call per node, in listing order.
package tree

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"github.com/MuhamedUsman/rmshelf/internal/file"
)

const pdfExt = ".pdf"

// Transport is the part of the API client the engine needs.
type Transport interface {
	List(ctx context.Context, folder domain.FolderID) ([]domain.Entry, error)
	Download(ctx context.Context, id string, w io.Writer) (int64, error)
}

// Result accounts for what a download wrote, including the part of a
// failed download that stays on disk.
type Result struct {
	Documents int
	Folders   int
	Bytes     int64
}

type Engine struct {
	t Transport
}

func New(t Transport) *Engine {
	return &Engine{t: t}
}

// SafeName turns an entry name into a file name. Every rune that is not a letter,
// digit, '.', '-' or '_' becomes '_', documents get a single ".pdf" suffix.
// Folder names that are empty or only dots become underscores so a child never
// resolves to its parent or above.
func SafeName(e domain.Entry) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, e.Name)
	if e.IsFolder() {
		if strings.Trim(name, ".") == "" {
			return strings.Repeat("_", max(len(name), 1))
		}
		return name
	}
	if !strings.HasSuffix(name, pdfExt) {
		name += pdfExt
	}
	return name
}

// Resolve returns the path entry is written to when downloaded to dest.
// A dest ending in a separator or naming an existing directory receives the entry
// under its SafeName, any other dest is used verbatim and needs an existing parent.
func Resolve(e domain.Entry, dest string) (string, error) {
	if file.HasTrailingSeparator(dest) || file.IsDir(dest) {
		if !file.IsDir(dest) {
			return "", fmt.Errorf("%w: directory %q does not exist", domain.ErrNotFound, dest)
		}
		return filepath.Join(dest, SafeName(e)), nil
	}
	parent := filepath.Dir(dest)
	if !file.IsDir(parent) {
		return "", fmt.Errorf("%w: directory %q does not exist", domain.ErrNotFound, parent)
	}
	return dest, nil
}

// Download writes entry to the path Resolve picks for dest and returns that path.
// The first failure aborts the walk, whatever was written before it is kept.
func (e *Engine) Download(ctx context.Context, entry domain.Entry, dest string) (string, Result, error) {
	var res Result
	final, err := Resolve(entry, dest)
	if err != nil {
		return "", res, err
	}
	slog.Debug("downloading tree", "id", entry.ID, "kind", entry.Kind, "dest", final)
	err = e.materialize(ctx, entry, final, &res)
	return final, res, err
}

func (e *Engine) materialize(ctx context.Context, entry domain.Entry, path string, res *Result) error {
	if entry.IsFolder() {
		return e.folder(ctx, entry, path, res)
	}
	return e.document(ctx, entry, path, res)
}

func (e *Engine) folder(ctx context.Context, entry domain.Entry, path string, res *Result) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("%w: creating directory %q: %v", domain.ErrIO, path, err)
	}
	res.Folders++
	children, err := e.t.List(ctx, domain.FolderID(entry.ID))
	if err != nil {
		return fmt.Errorf("listing %q: %w", entry.Name, err)
	}
	// siblings whose names sanitize alike would overwrite each other
	seen := make(map[string]string, len(children))
	for _, child := range children {
		name := SafeName(child)
		if other, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q and %q both map to %q in %q", domain.ErrIO, other, child.Name, name, path)
		}
		seen[name] = child.Name
		if err = e.materialize(ctx, child, filepath.Join(path, name), res); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) document(ctx context.Context, entry domain.Entry, path string, res *Result) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating directory %q: %v", domain.ErrIO, filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating file %q: %v", domain.ErrIO, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing file %q: %v", domain.ErrIO, path, cerr)
		}
	}()

	n, err := e.t.Download(ctx, entry.ID, f)
	res.Bytes += n
	if err != nil {
		return fmt.Errorf("downloading %q: %w", entry.Name, err)
	}
	res.Documents++
	return nil
}
