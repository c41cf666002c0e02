package ticketpdf

// Notes:
// - Stream compressors are checked by decoding their output with the same
//   libraries; the uncompressed archive must be gone afterwards
// - The pdfcpu optimizer is only checked on its failure path here

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

func writeArchive(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tickets-1-10.pdf")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestNewCompressor
// ---------------------------------------------------------------------------

func TestNewCompressor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Compressor
		wantErr bool
	}{
		{"", &ZstdCompressor{}, false},
		{"zstd", &ZstdCompressor{}, false},
		{"GZIP", &GzipCompressor{}, false},
		{"optimize", &OptimizeCompressor{}, false},
		{"none", NoCompression{}, false},
		{"lz4", nil, true},
	}

	for _, tt := range tests {
		got, err := NewCompressor(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCompression) {
				t.Errorf("NewCompressor(%q) error = %v, want ErrInvalidCompression", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewCompressor(%q) error = %v", tt.name, err)
			continue
		}
		if gotType, wantType := typeName(got), typeName(tt.want); gotType != wantType {
			t.Errorf("NewCompressor(%q) = %s, want %s", tt.name, gotType, wantType)
		}
	}
}

func typeName(c Compressor) string {
	switch c.(type) {
	case *ZstdCompressor:
		return "zstd"
	case *GzipCompressor:
		return "gzip"
	case *OptimizeCompressor:
		return "optimize"
	case NoCompression:
		return "none"
	}
	return "unknown"
}

// ---------------------------------------------------------------------------
// TestCompressors_RoundTrip
// ---------------------------------------------------------------------------

func TestCompressors_RoundTrip(t *testing.T) {
	t.Parallel()

	content := []byte(strings.Repeat("%PDF-1.7 ticket page\n", 2000))

	tests := []struct {
		name    string
		c       Compressor
		wantExt string
		decode  func(io.Reader) (io.Reader, error)
	}{
		{
			name:    "zstd",
			c:       &ZstdCompressor{Level: zstd.SpeedFastest},
			wantExt: ".zst",
			decode: func(r io.Reader) (io.Reader, error) {
				d, err := zstd.NewReader(r)
				if err != nil {
					return nil, err
				}
				return d.IOReadCloser(), nil
			},
		},
		{
			name:    "gzip",
			c:       &GzipCompressor{Level: pgzip.BestSpeed},
			wantExt: ".gz",
			decode: func(r io.Reader) (io.Reader, error) {
				return pgzip.NewReader(r)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeArchive(t, content)
			out, err := tt.c.Compress(context.Background(), path)
			if err != nil {
				t.Fatalf("Compress() error = %v", err)
			}
			if out != path+tt.wantExt {
				t.Errorf("Compress() = %s, want %s", out, path+tt.wantExt)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("uncompressed archive should be removed")
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatalf("opening output: %v", err)
			}
			defer func() { _ = f.Close() }()

			r, err := tt.decode(f)
			if err != nil {
				t.Fatalf("decoder: %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if !bytes.Equal(got, content) {
				t.Error("round trip changed the archive")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCompressors_Failures
// ---------------------------------------------------------------------------

func TestCompressors_MissingInput(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.pdf")
	for _, c := range []Compressor{&ZstdCompressor{}, &GzipCompressor{Level: pgzip.DefaultCompression}, NewOptimizeCompressor()} {
		if _, err := c.Compress(context.Background(), missing); err == nil {
			t.Errorf("%s: Compress() of missing file should fail", typeName(c))
		}
	}
}

func TestCompressors_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeArchive(t, []byte("x"))
	if _, err := (&ZstdCompressor{}).Compress(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Compress() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("input must survive a cancelled compression")
	}
}

func TestOptimizeCompressor_InvalidPDFKeepsOriginal(t *testing.T) {
	t.Parallel()

	path := writeArchive(t, []byte("not a pdf"))
	if _, err := NewOptimizeCompressor().Compress(context.Background(), path); err == nil {
		t.Fatal("Compress() of invalid PDF should fail")
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("original should be kept")
	}
	if _, err := os.Stat(path + ".opt"); !os.IsNotExist(err) {
		t.Error("temporary optimizer output should be removed")
	}
}

func TestNoCompression(t *testing.T) {
	t.Parallel()

	path := writeArchive(t, []byte("x"))
	out, err := NoCompression{}.Compress(context.Background(), path)
	if err != nil || out != path {
		t.Errorf("Compress() = (%s, %v), want (%s, nil)", out, err, path)
	}
}
