package ticketpdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// Compressor compresses the file at path and returns the resulting path.
// Implementations that write a new file remove the original, so a batch
// always ends with exactly one archive.
type Compressor interface {
	Compress(ctx context.Context, path string) (string, error)
}

// Compression names.
const (
	CompressionZstd     = "zstd"
	CompressionGzip     = "gzip"
	CompressionOptimize = "optimize"
	CompressionNone     = "none"
)

// Compile-time interface checks
var (
	_ Compressor = (*ZstdCompressor)(nil)
	_ Compressor = (*GzipCompressor)(nil)
	_ Compressor = (*OptimizeCompressor)(nil)
	_ Compressor = NoCompression{}
)

// NewCompressor returns the compressor called name ("zstd" when empty).
func NewCompressor(name string) (Compressor, error) {
	switch strings.ToLower(name) {
	case "", CompressionZstd:
		return &ZstdCompressor{Level: zstd.SpeedBetterCompression}, nil
	case CompressionGzip:
		return &GzipCompressor{Level: pgzip.BestCompression}, nil
	case CompressionOptimize:
		return NewOptimizeCompressor(), nil
	case CompressionNone:
		return NoCompression{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (must be zstd, gzip, optimize, or none)", ErrInvalidCompression, name)
	}
}

// ZstdCompressor writes path.zst.
type ZstdCompressor struct {
	Level zstd.EncoderLevel
}

func (c *ZstdCompressor) Compress(ctx context.Context, path string) (string, error) {
	return compressStream(ctx, path, path+".zst", func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(c.Level))
	})
}

// GzipCompressor writes path.gz using parallel gzip.
type GzipCompressor struct {
	Level int
}

func (c *GzipCompressor) Compress(ctx context.Context, path string) (string, error) {
	return compressStream(ctx, path, path+".gz", func(w io.Writer) (io.WriteCloser, error) {
		return pgzip.NewWriterLevel(w, c.Level)
	})
}

// compressStream pipes path through an encoder into out, written
// atomically, then removes path.
func compressStream(ctx context.Context, path, out string, newEncoder func(io.Writer) (io.WriteCloser, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	in, err := os.Open(path) // #nosec G304 -- archive path built by the consolidator
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = in.Close() }()

	pr, pw := io.Pipe()
	go func() {
		enc, err := newEncoder(pw)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		_, err = io.Copy(enc, in)
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	if err := fileutil.WriteReaderAtomic(out, pr, 0o644); err != nil {
		_ = pr.CloseWithError(err)
		return "", fmt.Errorf("writing %s: %w", out, err)
	}

	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("removing uncompressed archive: %w", err)
	}
	return out, nil
}

// OptimizeCompressor shrinks the PDF in place with pdfcpu's optimizer.
type OptimizeCompressor struct {
	conf *model.Configuration
}

// NewOptimizeCompressor creates an OptimizeCompressor with pdfcpu defaults.
func NewOptimizeCompressor() *OptimizeCompressor {
	return &OptimizeCompressor{conf: model.NewDefaultConfiguration()}
}

func (c *OptimizeCompressor) Compress(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp := path + ".opt"
	if err := api.OptimizeFile(path, tmp, c.conf); err != nil {
		_, _ = fileutil.RemoveIfExists(tmp)
		return "", fmt.Errorf("pdfcpu optimize: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_, _ = fileutil.RemoveIfExists(tmp)
		return "", fmt.Errorf("replacing archive: %w", err)
	}
	return path, nil
}

// NoCompression leaves the archive untouched.
type NoCompression struct{}

func (NoCompression) Compress(_ context.Context, path string) (string, error) {
	return path, nil
}
