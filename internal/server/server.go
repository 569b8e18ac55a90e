// Package server serves a directory tree over the same HTTP API the device
// exposes, so the browser can be developed and tested without one.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/justinas/alice"
)

const (
	maxUploadSize = 256 << 20
	pdfExt        = ".pdf"
)

// idSpace namespaces the name based ids of the served tree.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rmshelf/simulator"))

type Server struct {
	root string
	mu   sync.Mutex
	// id -> slash separated path relative to root
	paths map[string]string
	// folder of the most recent listing, uploads land there
	lastListed string
}

// New serves the tree below root, which must be an existing directory.
func New(root string) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", abs)
	}
	return &Server{root: abs, paths: make(map[string]string)}, nil
}

// IDFor returns the id the entry at rel, a slash separated path below root, is served under.
func IDFor(rel string) string {
	return uuid.NewSHA1(idSpace, []byte(path.Clean("/"+rel))).String()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/{$}", s.listHandler)
	mux.HandleFunc("GET /documents/{id}", s.listHandler)
	mux.HandleFunc("GET /download/{id}/pdf", s.downloadHandler)
	mux.HandleFunc("POST /upload", s.uploadHandler)
	mux.HandleFunc("/", s.notFoundResponse)
	return alice.New(s.recoverPanic, s.logRequest).Then(mux)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			errCh <- fmt.Errorf("shutting down server: %w", err)
		}
	}()

	slog.Info("serving documents", "root", s.root, "address", ln.Addr().String())
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving on %q: %w", ln.Addr(), err)
	}
	return <-errCh
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	rel := ""
	if id := r.PathValue("id"); id != "" {
		var ok bool
		if rel, ok = s.resolve(id); !ok {
			s.notFoundResponse(w, r)
			return
		}
	}
	dir := filepath.Join(s.root, filepath.FromSlash(rel))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		s.notFoundResponse(w, r)
		return
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	entries := make([]domain.Entry, 0, len(des))
	s.mu.Lock()
	for _, de := range des {
		if strings.HasPrefix(de.Name(), ".") || !(de.IsDir() || de.Type().IsRegular()) {
			continue
		}
		childRel := path.Join(rel, de.Name())
		id := IDFor(childRel)
		s.paths[id] = childRel
		e := domain.Entry{ID: id, Name: de.Name(), Kind: domain.Folder}
		if !de.IsDir() {
			e.Kind = domain.Document
			e.Name = strings.TrimSuffix(e.Name, pdfExt)
		}
		entries = append(entries, e)
	}
	s.lastListed = rel
	s.mu.Unlock()

	if err = s.writeJSON(w, entries, http.StatusOK, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	rel, ok := s.resolve(r.PathValue("id"))
	if !ok {
		s.notFoundResponse(w, r)
		return
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		s.notFoundResponse(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	if !info.Mode().IsRegular() {
		s.notFoundResponse(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	src, hdr, err := r.FormFile("file")
	if err != nil {
		s.badRequestResponse(w, r, fmt.Errorf("reading multipart part %q: %w", "file", err))
		return
	}
	defer src.Close()

	name := filepath.Base(filepath.FromSlash(hdr.Filename))
	if name == "." || name == ".." || name == string(filepath.Separator) || strings.HasPrefix(name, ".") {
		s.badRequestResponse(w, r, fmt.Errorf("invalid file name %q", hdr.Filename))
		return
	}

	s.mu.Lock()
	folder := s.lastListed
	s.mu.Unlock()

	dst, rel, err := createUnique(s.root, folder, name)
	if err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
		s.serverErrorResponse(w, r, fmt.Errorf("storing upload %q: %w", name, err))
		return
	}
	slog.Info("stored upload", "path", rel, "size", humanize.Bytes(uint64(n)))

	id := IDFor(rel)
	s.mu.Lock()
	s.paths[id] = rel
	s.mu.Unlock()
	e := domain.Entry{ID: id, Name: strings.TrimSuffix(path.Base(rel), pdfExt), Kind: domain.Document}
	if err = s.writeJSON(w, e, http.StatusCreated, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

// resolve maps an id to its path, walking the tree for ids that were never listed.
func (s *Server) resolve(id string) (string, bool) {
	s.mu.Lock()
	rel, ok := s.paths[id]
	s.mu.Unlock()
	if ok {
		return rel, true
	}
	found := ""
	_ = filepath.WalkDir(s.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		r, err := filepath.Rel(s.root, p)
		if err != nil || r == "." {
			return nil
		}
		r = filepath.ToSlash(r)
		if IDFor(r) == id {
			found = r
			return filepath.SkipAll
		}
		return nil
	})
	if found == "" {
		return "", false
	}
	s.mu.Lock()
	s.paths[id] = found
	s.mu.Unlock()
	return found, true
}

// createUnique creates name inside folder, adding " (n)" before the extension
// while the name is taken.
func createUnique(root, folder, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		rel := path.Join(folder, candidate)
		f, err := os.OpenFile(filepath.Join(root, filepath.FromSlash(rel)), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, rel, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("creating %q: %w", rel, err)
		}
	}
	return nil, "", fmt.Errorf("no free name for %q in %q", name, folder)
}
