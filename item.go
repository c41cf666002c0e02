package ticketpdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/skip2/go-qrcode"

	"github.com/alnah/go-ticketpdf/internal/assets"
)

// CodeGenerator turns a payload into a scannable code image.
type CodeGenerator interface {
	Generate(ctx context.Context, payload string) ([]byte, error)
}

// DefaultCodeSize is the QR image side in pixels.
const DefaultCodeSize = 256

// QRGenerator renders PNG QR codes.
type QRGenerator struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewQRGenerator creates a QRGenerator producing size x size images at
// medium error correction. A non-positive size selects DefaultCodeSize.
func NewQRGenerator(size int) *QRGenerator {
	if size <= 0 {
		size = DefaultCodeSize
	}
	return &QRGenerator{size: size, level: qrcode.Medium}
}

// Generate encodes payload as a PNG QR code.
func (g *QRGenerator) Generate(ctx context.Context, payload string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, g.level, g.size)
}

// ItemOptions configures what every ticket shows besides its id.
type ItemOptions struct {
	Caption       string // text above the code
	PayloadPrefix string // prepended to the decimal id before encoding
}

// itemData is the item template's view of one ticket.
type itemData struct {
	ID        int
	Label     string
	Caption   string
	Code      template.URL
	LeftLogo  template.URL
	RightLogo template.URL
}

// ItemFactory builds the markup for single tickets. It is safe for
// concurrent use.
type ItemFactory struct {
	gen       CodeGenerator
	tmpl      *template.Template
	opts      ItemOptions
	leftLogo  template.URL
	rightLogo template.URL
}

// NewItemFactory parses the item template from set and pre-encodes both logos.
func NewItemFactory(gen CodeGenerator, set *assets.TicketSet, opts ItemOptions) (*ItemFactory, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: nil code generator", ErrGeneration)
	}

	tmpl, err := template.New("item").Option("missingkey=error").Parse(set.ItemTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrItemTemplate, err)
	}

	// #nosec G203 -- data URLs built from trusted asset bytes
	return &ItemFactory{
		gen:       gen,
		tmpl:      tmpl,
		opts:      opts,
		leftLogo:  template.URL(set.LeftLogo.DataURL()),
		rightLogo: template.URL(set.RightLogo.DataURL()),
	}, nil
}

// Payload returns the string encoded in the code of ticket id.
func (f *ItemFactory) Payload(id int) string {
	return f.opts.PayloadPrefix + strconv.Itoa(id)
}

// MakeItem renders ticket id. The result depends only on id and the
// factory's configuration.
func (f *ItemFactory) MakeItem(ctx context.Context, id int) (RenderedItem, error) {
	if id < 1 {
		return RenderedItem{}, fmt.Errorf("%w: ticket id must be positive, got %d", ErrGeneration, id)
	}

	code, err := f.gen.Generate(ctx, f.Payload(id))
	if err != nil {
		return RenderedItem{}, fmt.Errorf("%w: ticket %d: %w", ErrGeneration, id, err)
	}

	data := itemData{
		ID:        id,
		Label:     strconv.Itoa(id),
		Caption:   f.opts.Caption,
		Code:      codeDataURL(code),
		LeftLogo:  f.leftLogo,
		RightLogo: f.rightLogo,
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return RenderedItem{}, fmt.Errorf("%w: ticket %d: %v", ErrGeneration, id, err)
	}

	return RenderedItem{ID: id, Markup: buf.String()}, nil
}

// codeDataURL sniffs the image type so any CodeGenerator output works.
func codeDataURL(img []byte) template.URL {
	mime := http.DetectContentType(img)
	// #nosec G203 -- generator output is base64 encoded, never raw markup
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img))
}
