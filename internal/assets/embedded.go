package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

//go:embed images/*
var images embed.FS

// EmbeddedLoader loads assets bundled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadTemplate loads an HTML template from embedded assets by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// LoadImage loads an image from embedded assets by name.
func (e *EmbeddedLoader) LoadImage(name string) (*Image, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	for _, candidate := range imageExtensions {
		data, err := images.ReadFile("images/" + name + candidate.ext)
		if err != nil {
			continue
		}
		return &Image{Name: name, MIME: candidate.mime, Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrImageNotFound, name)
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
