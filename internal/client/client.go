package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	documents = "/documents/"
	download  = "/download/%s/pdf"
	upload    = "/upload"
	// multipart field the device reads the uploaded file from
	uploadField = "file"
)

// Client talks to the device's document API. It keeps no state besides the
// underlying http.Client and never retries, callers decide when to try again.
// A Client is safe to share between goroutines.
type Client struct {
	http    *http.Client
	baseURL string
}

// New returns a Client for baseURL, timeout of zero means requests never time out.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// List returns the children of folder, domain.Root lists the top level.
// It never returns a partial listing.
func (c *Client) List(ctx context.Context, folder domain.FolderID) ([]domain.Entry, error) {
	addr := c.baseURL + documents
	if !folder.IsRoot() {
		addr += url.PathEscape(string(folder))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, requestErr("listing documents", err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp, "listing documents"); err != nil {
		return nil, err
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading document listing: %v", domain.ErrTransport, err)
	}

	var entries []domain.Entry
	if err = json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: parsing document listing JSON: %v", domain.ErrTransport, err)
	}
	slog.Debug("listed documents", "folder", folder, "count", len(entries))
	return entries, nil
}

// Download streams the PDF rendering of document id into w and reports the
// number of bytes written. On failure w may hold a truncated body.
func (c *Client) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	addr := c.baseURL + fmt.Sprintf(download, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: creating request: %v", domain.ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, requestErr("downloading document", err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp, "downloading document"); err != nil {
		return 0, err
	}

	sink := &sinkWriter{w: w}
	n, err := io.Copy(sink, resp.Body)
	if err != nil {
		if sink.err != nil {
			return n, fmt.Errorf("%w: writing document %q: %v", domain.ErrIO, id, sink.err)
		}
		return n, fmt.Errorf("%w: streaming document %q: %v", domain.ErrTransport, id, err)
	}
	slog.Debug("downloaded document", "id", id, "bytes", n)
	return n, nil
}

// Upload sends the file at localPath as a single multipart part, the device
// decides where it lands.
func (c *Client) Upload(ctx context.Context, localPath string) error {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %v", domain.ErrIO, localPath, err)
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(uploadField, filepath.Base(localPath))
	if err != nil {
		return fmt.Errorf("%w: creating multipart part: %v", domain.ErrTransport, err)
	}
	if _, err = part.Write(content); err != nil {
		return fmt.Errorf("%w: writing multipart part: %v", domain.ErrTransport, err)
	}
	if err = mw.Close(); err != nil {
		return fmt.Errorf("%w: closing multipart body: %v", domain.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+upload, body)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return requestErr("uploading file", err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if err = checkStatus(resp, "uploading file"); err != nil {
		return err
	}
	slog.Debug("uploaded file", "path", localPath, "bytes", len(content))
	return nil
}

func requestErr(op string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %s: request timed out", domain.ErrTransport, op)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrTransport, op, err)
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: server returned status %d while %s", domain.ErrTransport, resp.StatusCode, op)
	}
	return nil
}

// sinkWriter remembers write failures so they are not mistaken for network ones.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}
