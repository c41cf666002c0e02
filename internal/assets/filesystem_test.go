package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeAsset creates {base}/{dir}/{file} with content.
func writeAsset(t *testing.T, base, dir, file, content string) {
	t.Helper()

	full := filepath.Join(base, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(full, file), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", file, err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "styles", "paper.css", ".sheet { color: red; }")

	loader, err := NewFilesystemLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	tests := []struct {
		name      string
		styleName string
		want      string
		wantErr   error
	}{
		{name: "loads existing style", styleName: "paper", want: ".sheet { color: red; }"},
		{name: "missing style", styleName: "absent", wantErr: ErrStyleNotFound},
		{name: "traversal rejected", styleName: "../paper", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if got != tt.want {
				t.Errorf("LoadStyle(%q) = %q, want %q", tt.styleName, got, tt.want)
			}
		})
	}
}

func TestFilesystemLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "templates", "page.html", "<html>INJECT_CONTENT</html>")

	loader, err := NewFilesystemLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.LoadTemplate("page")
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if got != "<html>INJECT_CONTENT</html>" {
		t.Errorf("LoadTemplate() = %q", got)
	}

	if _, err := loader.LoadTemplate("item"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(item) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestFilesystemLoader_LoadImage(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "images", "logo-left.png", "png-bytes")
	writeAsset(t, tmpDir, "images", "logo-right.jpeg", "jpeg-bytes")

	loader, err := NewFilesystemLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	tests := []struct {
		name     string
		image    string
		wantMIME string
		wantData string
		wantErr  error
	}{
		{name: "png extension", image: "logo-left", wantMIME: "image/png", wantData: "png-bytes"},
		{name: "jpeg extension", image: "logo-right", wantMIME: "image/jpeg", wantData: "jpeg-bytes"},
		{name: "missing image", image: "logo-center", wantErr: ErrImageNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			img, err := loader.LoadImage(tt.image)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadImage(%q) error = %v, want %v", tt.image, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadImage(%q) unexpected error: %v", tt.image, err)
			}
			if img.MIME != tt.wantMIME {
				t.Errorf("MIME = %q, want %q", img.MIME, tt.wantMIME)
			}
			if string(img.Data) != tt.wantData {
				t.Errorf("Data = %q, want %q", img.Data, tt.wantData)
			}
		})
	}
}

func TestFilesystemLoader_PathContainment(t *testing.T) {
	t.Parallel()

	t.Run("rejects symlink escape attempt", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		stylesDir := filepath.Join(tmpDir, "styles")
		if err := os.MkdirAll(stylesDir, 0o755); err != nil {
			t.Fatalf("failed to create styles dir: %v", err)
		}

		secretFile := filepath.Join(t.TempDir(), "secret.css")
		if err := os.WriteFile(secretFile, []byte("secret content"), 0o644); err != nil {
			t.Fatalf("failed to write secret file: %v", err)
		}

		if err := os.Symlink(secretFile, filepath.Join(stylesDir, "evil.css")); err != nil {
			t.Skipf("symlink creation not supported: %v", err)
		}

		loader, err := NewFilesystemLoader(tmpDir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.LoadStyle("evil")
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("LoadStyle() with symlink escape error = %v, want ErrPathTraversal", err)
		}
	})
}

func TestFilesystemLoader_ImplementsAssetLoader(t *testing.T) {
	t.Parallel()

	var _ AssetLoader = (*FilesystemLoader)(nil)
}
