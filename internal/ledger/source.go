package ledger

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source provides the bytes of a CSV trade log
type Source interface {
	// Open returns a reader over the CSV content; callers close it
	Open(ctx context.Context) (io.ReadCloser, error)

	// Name identifies the source in logs and metrics
	Name() string
}

// FileSource reads a trade log from the local filesystem
type FileSource struct {
	Path string
}

// NewFileSource creates a file source
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Open opens the file
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

// Name returns the file's base name
func (s *FileSource) Name() string {
	return "file:" + filepath.Base(s.Path)
}

// ReaderSource wraps an already open stream such as an upload body
type ReaderSource struct {
	label string
	r     io.Reader
}

// NewReaderSource creates a source over r
func NewReaderSource(label string, r io.Reader) *ReaderSource {
	return &ReaderSource{label: label, r: r}
}

// Open returns the wrapped reader; it can be consumed once
func (s *ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(s.r), nil
}

// Name returns the label
func (s *ReaderSource) Name() string {
	return s.label
}

//go:embed testdata/demo_trade_log.csv
var demoTradeLog []byte

// DemoSource serves the built-in demo trade log
type DemoSource struct{}

// Open returns the embedded demo data
func (DemoSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(demoTradeLog)), nil
}

// Name returns "demo"
func (DemoSource) Name() string {
	return "demo"
}

// ResolveSource maps "demo", an http(s) URL or a file path to a Source.
// client may be nil for the default remote client.
func ResolveSource(target string, client *RateLimitedHTTPClient) (Source, error) {
	switch {
	case target == "demo":
		return DemoSource{}, nil
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return NewHTTPSource(target, client)
	default:
		return NewFileSource(target), nil
	}
}
