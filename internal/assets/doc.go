// Package assets provides the page template, item template, stylesheets and
// logos used to render tickets.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (bundled defaults)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is what the pipeline uses: a custom directory only needs to
// contain the files it overrides.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── normalize.css
//	│   └── paper.css
//	├── templates/
//	│   ├── page.html            # must contain INJECT_NORMALIZE, INJECT_PAPER_CSS, INJECT_CONTENT
//	│   └── item.html            # html/template with .ID .Label .Caption .Code .LeftLogo .RightLogo
//	└── images/
//	    ├── logo-left.{svg,png,jpg}
//	    └── logo-right.{svg,png,jpg}
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
