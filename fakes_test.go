package ticketpdf

// Notes:
// - Hand-written fakes for every external collaborator so the pipeline can be
//   exercised without a browser, pdfcpu or network
// - fakeSession writes the composed document itself as the "PDF", so merged
//   archives carry the data-ticket markers and ordering can be asserted
// - fakeMerger concatenates its inputs in the order received

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

var errInjected = errors.New("injected failure")

// ---------------------------------------------------------------------------
// Code generator
// ---------------------------------------------------------------------------

type fakeGenerator struct {
	mu       sync.Mutex
	payloads []string
	failOn   string // payload that fails
}

func (g *fakeGenerator) Generate(ctx context.Context, payload string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.payloads = append(g.payloads, payload)
	g.mu.Unlock()
	if payload == g.failOn {
		return nil, errInjected
	}
	return []byte("code:" + payload), nil
}

// ---------------------------------------------------------------------------
// Renderer
// ---------------------------------------------------------------------------

type fakeRenderer struct {
	exports  atomic.Int32
	opened   atomic.Int32
	closed   atomic.Int32 // sessions closed
	failOn   int32        // fail the Nth ExportPDF call (1-based), 0 = never
	openErr  error
	shutdown atomic.Bool
}

func (r *fakeRenderer) OpenSession(ctx context.Context) (Session, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.opened.Add(1)
	return &fakeSession{r: r}, nil
}

func (r *fakeRenderer) Close() error {
	r.shutdown.Store(true)
	return nil
}

type fakeSession struct {
	r    *fakeRenderer
	html string
}

func (s *fakeSession) SetContent(_ context.Context, html string) error {
	s.html = html
	return nil
}

func (s *fakeSession) ExportPDF(ctx context.Context, path string, _ PageSettings) error {
	n := s.r.exports.Add(1)
	if s.r.failOn != 0 && n == s.r.failOn {
		// Leave a partial file behind, as a crashing renderer might.
		_ = os.WriteFile(path, []byte("%PDF-partial"), 0o600)
		return errInjected
	}
	return os.WriteFile(path, []byte(s.html), 0o600)
}

func (s *fakeSession) Close() error {
	s.r.closed.Add(1)
	return nil
}

// ---------------------------------------------------------------------------
// Merger
// ---------------------------------------------------------------------------

type fakeMerger struct {
	mu     sync.Mutex
	calls  [][]string
	err    error
	writes bool // write partial output before failing
}

func (m *fakeMerger) Merge(_ context.Context, inputs []string, output string) error {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), inputs...))
	m.mu.Unlock()

	if m.err != nil {
		if m.writes {
			_ = os.WriteFile(output, []byte("partial"), 0o600)
		}
		return m.err
	}

	var merged []byte
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		merged = append(merged, data...)
	}
	return os.WriteFile(output, merged, 0o600)
}

func (m *fakeMerger) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// ---------------------------------------------------------------------------
// Compressor and publisher
// ---------------------------------------------------------------------------

type failingCompressor struct{}

func (failingCompressor) Compress(context.Context, string) (string, error) {
	return "", errInjected
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	err       error
	check     func(path string) // called before publishing
}

func (p *fakePublisher) Publish(_ context.Context, path string) (string, error) {
	if p.check != nil {
		p.check(path)
	}
	if p.err != nil {
		return "", p.err
	}
	p.mu.Lock()
	p.published = append(p.published, path)
	p.mu.Unlock()
	return "mem://" + path, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var ticketMarker = regexp.MustCompile(`data-ticket="(\d+)"`)

// ticketIDs extracts the ticket ids, in document order, from rendered markup.
func ticketIDs(t *testing.T, data []byte) []int {
	t.Helper()

	var ids []int
	for _, m := range ticketMarker.FindAllSubmatch(data, -1) {
		id, err := strconv.Atoi(string(m[1]))
		if err != nil {
			t.Fatalf("bad ticket marker %q: %v", m[1], err)
		}
		ids = append(ids, id)
	}
	return ids
}

// seq returns first..last.
func seq(first, last int) []int {
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out
}

func newTestStaging(t *testing.T) *StagingDirectory {
	t.Helper()

	s, err := NewStagingDirectory(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStagingDirectory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
