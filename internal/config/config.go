package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
	"github.com/alnah/go-ticketpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxCaptionLength    = 200
	MaxPrefixLength     = 64
	MaxPathLength       = 4096
	MaxBucketLength     = 63 // S3 bucket naming rules
	MaxURLLength        = 2048
	MaxCredentialLength = 256
)

// Numeric limits.
const (
	MaxRenderWorkers   = 8
	MaxGenerateWorkers = 64
	MaxMargin          = 2.0 // inches
	MinCodeSize        = 64  // pixels
	MaxCodeSize        = 1024
)

// Config holds all configuration for a ticket run.
type Config struct {
	Tickets  TicketsConfig  `yaml:"tickets"`
	Generate GenerateConfig `yaml:"generate"`
	Render   RenderConfig   `yaml:"render"`
	Output   OutputConfig   `yaml:"output"`
	Assets   AssetsConfig   `yaml:"assets"`
	Publish  PublishConfig  `yaml:"publish"`
}

// TicketsConfig defines the identifier space and what each ticket shows.
type TicketsConfig struct {
	Total         int    `yaml:"total"`         // tickets numbered 1..Total
	BatchSize     int    `yaml:"batchSize"`     // tickets per archive
	PageSize      int    `yaml:"pageSize"`      // tickets per staged chunk (one PDF page)
	Caption       string `yaml:"caption"`       // text above the code
	PayloadPrefix string `yaml:"payloadPrefix"` // prepended to the decimal id in the code
	CodeSize      int    `yaml:"codeSize"`      // QR image side in pixels
}

// GenerateConfig defines item generation options.
type GenerateConfig struct {
	Workers int `yaml:"workers"` // concurrent code generations per chunk
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	Engine      string  `yaml:"engine"`      // "rod" or "chromedp"
	BrowserBin  string  `yaml:"browserBin"`  // empty = auto-detect
	Headless    bool    `yaml:"headless"`    // default true
	NoSandbox   bool    `yaml:"noSandbox"`   // needed in most containers
	Timeout     string  `yaml:"timeout"`     // per page, Go duration ("30s")
	PageFormat  string  `yaml:"pageFormat"`  // "a4", "letter", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
	Workers     int     `yaml:"workers"`     // concurrent pages, 1..8
}

// OutputConfig defines where archives go.
type OutputConfig struct {
	Dir         string `yaml:"dir"`         // archive directory
	Prefix      string `yaml:"prefix"`      // archive name prefix
	Compression string `yaml:"compression"` // "zstd", "gzip", "optimize", "none"
	Resume      bool   `yaml:"resume"`      // skip ranges recorded in the checkpoint
	StagingDir  string `yaml:"stagingDir"`  // parent of the staging directory (empty = os temp)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PublishConfig defines optional S3 upload of finished archives.
type PublishConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Bucket       string `yaml:"bucket"`
	Endpoint     string `yaml:"endpoint"` // empty = AWS default
	Region       string `yaml:"region"`
	AccessKey    string `yaml:"accessKey"` // empty = default credential chain
	SecretKey    string `yaml:"secretKey"`
	KeyPrefix    string `yaml:"keyPrefix"`
	UsePathStyle bool   `yaml:"usePathStyle"`
}

// RenderTimeout returns the parsed render timeout, zero when unset.
func (r RenderConfig) RenderTimeout() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout: %v", ErrInvalidValue, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: render.timeout: must not be negative", ErrInvalidValue)
	}
	return d, nil
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	t := c.Tickets
	if t.Total < 1 {
		return fmt.Errorf("%w: tickets.total: must be positive, got %d", ErrInvalidValue, t.Total)
	}
	if t.BatchSize < 1 {
		return fmt.Errorf("%w: tickets.batchSize: must be positive, got %d", ErrInvalidValue, t.BatchSize)
	}
	if t.PageSize < 1 {
		return fmt.Errorf("%w: tickets.pageSize: must be positive, got %d", ErrInvalidValue, t.PageSize)
	}
	if t.PageSize > t.BatchSize {
		return fmt.Errorf("%w: tickets.pageSize (%d) exceeds tickets.batchSize (%d)", ErrInvalidValue, t.PageSize, t.BatchSize)
	}
	if t.CodeSize != 0 && (t.CodeSize < MinCodeSize || t.CodeSize > MaxCodeSize) {
		return fmt.Errorf("%w: tickets.codeSize: must be between %d and %d, got %d", ErrInvalidValue, MinCodeSize, MaxCodeSize, t.CodeSize)
	}
	if err := validateFieldLength("tickets.caption", t.Caption, MaxCaptionLength); err != nil {
		return err
	}
	if err := validateFieldLength("tickets.payloadPrefix", t.PayloadPrefix, MaxPrefixLength); err != nil {
		return err
	}

	if c.Generate.Workers < 0 || c.Generate.Workers > MaxGenerateWorkers {
		return fmt.Errorf("%w: generate.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxGenerateWorkers, c.Generate.Workers)
	}

	if err := c.Render.validate(); err != nil {
		return err
	}
	if err := c.Output.validate(); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	return c.Publish.validate()
}

func (r RenderConfig) validate() error {
	if err := oneOf("render.engine", r.Engine, "rod", "chromedp"); err != nil {
		return err
	}
	if err := oneOf("render.pageFormat", r.PageFormat, "a4", "letter", "legal"); err != nil {
		return err
	}
	if err := oneOf("render.orientation", r.Orientation, "portrait", "landscape"); err != nil {
		return err
	}
	if err := validateFieldLength("render.browserBin", r.BrowserBin, MaxPathLength); err != nil {
		return err
	}
	if r.Margin < 0 || r.Margin > MaxMargin {
		return fmt.Errorf("%w: render.margin: must be between 0 and %.1f, got %.2f", ErrInvalidValue, MaxMargin, r.Margin)
	}
	if r.Workers < 0 || r.Workers > MaxRenderWorkers {
		return fmt.Errorf("%w: render.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxRenderWorkers, r.Workers)
	}
	_, err := r.RenderTimeout()
	return err
}

func (o OutputConfig) validate() error {
	if err := oneOf("output.compression", o.Compression, "zstd", "gzip", "optimize", "none"); err != nil {
		return err
	}
	if err := validateFieldLength("output.prefix", o.Prefix, MaxPrefixLength); err != nil {
		return err
	}
	if o.Prefix != "" {
		if err := fileutil.ValidateName(o.Prefix); err != nil {
			return fmt.Errorf("%w: output.prefix: %v", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("output.dir", o.Dir, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("output.stagingDir", o.StagingDir, MaxPathLength)
}

func (p PublishConfig) validate() error {
	if !p.Enabled {
		return nil
	}
	if p.Bucket == "" {
		return fmt.Errorf("%w: publish.bucket: required when publish is enabled", ErrInvalidValue)
	}
	if err := validateFieldLength("publish.bucket", p.Bucket, MaxBucketLength); err != nil {
		return err
	}
	if err := validateFieldLength("publish.endpoint", p.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("publish.accessKey", p.AccessKey, MaxCredentialLength); err != nil {
		return err
	}
	if err := validateFieldLength("publish.secretKey", p.SecretKey, MaxCredentialLength); err != nil {
		return err
	}
	if (p.AccessKey == "") != (p.SecretKey == "") {
		return fmt.Errorf("%w: publish.accessKey and publish.secretKey must be set together", ErrInvalidValue)
	}
	return validateFieldLength("publish.keyPrefix", p.KeyPrefix, MaxPathLength)
}

// oneOf accepts empty (meaning default) or one of allowed, case-insensitively.
func oneOf(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Tickets: TicketsConfig{
			Total:     150,
			BatchSize: 500,
			PageSize:  10,
			Caption:   "Jeton de distribution de MILD",
			CodeSize:  256,
		},
		Generate: GenerateConfig{Workers: 10},
		Render: RenderConfig{
			Engine:      "rod",
			Headless:    true,
			Timeout:     "30s",
			PageFormat:  "a4",
			Orientation: "portrait",
			Workers:     1,
		},
		Output: OutputConfig{
			Dir:         ".",
			Prefix:      "tickets",
			Compression: "zstd",
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-ticketpdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-ticketpdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
