package assets

import (
	"encoding/base64"
	"strings"
)

// AssetLoader defines the contract for loading ticket assets.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	LoadTemplate(name string) (string, error)

	// LoadImage loads an image by name, trying each supported extension.
	LoadImage(name string) (*Image, error)
}

// Image is a binary asset with its media type.
type Image struct {
	Name string
	MIME string
	Data []byte
}

// DataURL returns the image encoded as a base64 data URL.
func (i *Image) DataURL() string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(i.MIME) + base64.StdEncoding.EncodedLen(len(i.Data)))
	b.WriteString("data:")
	b.WriteString(i.MIME)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(i.Data))
	return b.String()
}

// imageExtensions lists supported image extensions in lookup order.
var imageExtensions = []struct {
	ext  string
	mime string
}{
	{".svg", "image/svg+xml"},
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
}
