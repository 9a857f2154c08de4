package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/twels/front/internal/keyboard"
	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/upload"
)

type File struct {
	Version   int             `yaml:"version" json:"version"`
	Server    Server          `yaml:"server" json:"server"`
	Codec     Codec           `yaml:"codec" json:"codec"`
	Search    Search          `yaml:"search" json:"search"`
	OCR       OCR             `yaml:"ocr" json:"ocr"`
	Upload    Upload          `yaml:"upload" json:"upload"`
	Store     Store           `yaml:"store" json:"store"`
	MDNS      MDNS            `yaml:"mdns" json:"mdns"`
	Languages []Language      `yaml:"languages" json:"languages"`
	Keyboard  keyboard.Layout `yaml:"keyboard" json:"keyboard"`
}

type Server struct {
	Addr     string `yaml:"addr" json:"addr"`
	GRPCAddr string `yaml:"grpc_addr,omitempty" json:"grpc_addr,omitempty"`

	// StaticDir holds the browser build (twels.wasm, wasm_exec.js) served
	// under /static/. Empty disables it.
	StaticDir string `yaml:"static_dir,omitempty" json:"static_dir,omitempty"`
}

type Codec struct {
	// Variant names the codec used for incoming q values: v1 or v2.
	Variant string `yaml:"variant" json:"variant"`

	// PlainQuery decodes q like any other parameter (no '+' separator).
	PlainQuery        bool `yaml:"plain_query,omitempty" json:"plain_query,omitempty"`
	AllowMissingValue bool `yaml:"allow_missing_value,omitempty" json:"allow_missing_value,omitempty"`
}

type Search struct {
	BackendURL     string `yaml:"backend_url,omitempty" json:"backend_url,omitempty"`
	PageSize       int    `yaml:"page_size" json:"page_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

type OCR struct {
	Endpoint       string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	AppID          string `yaml:"app_id,omitempty" json:"-"`
	AppKey         string `yaml:"app_key,omitempty" json:"-"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

type Upload struct {
	MaxBytes int64    `yaml:"max_bytes" json:"max_bytes"`
	Allowed  []string `yaml:"allowed,omitempty" json:"allowed,omitempty"`
}

type Store struct {
	Path string `yaml:"path" json:"path"`
}

type MDNS struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Instance string `yaml:"instance,omitempty" json:"instance,omitempty"`
}

type Language struct {
	Value   string `yaml:"value" json:"value"`
	Label   string `yaml:"label" json:"label"`
	Checked bool   `yaml:"checked,omitempty" json:"checked,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Version: 1,
		Server:  Server{Addr: ":8080"},
		Codec:   Codec{Variant: "v2"},
		Search:  Search{PageSize: 10, TimeoutSeconds: 10},
		OCR:     OCR{TimeoutSeconds: 30},
		Upload:  Upload{MaxBytes: 10 << 20, Allowed: append([]string(nil), upload.DefaultPatterns...)},
		Store:   Store{Path: "twels.db"},
		MDNS:    MDNS{Enabled: true},
		Languages: []Language{
			{Value: "ja", Label: "日本語", Checked: true},
			{Value: "en", Label: "English", Checked: true},
		},
		Keyboard: keyboard.DefaultLayout(),
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte, source string) (File, error) {
	cfg := Default()
	cfg.Keyboard = keyboard.Layout{}
	cfg.Languages = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}
	if len(cfg.Keyboard.Panels) == 0 {
		cfg.Keyboard = keyboard.DefaultLayout()
	}
	if cfg.Languages == nil {
		cfg.Languages = Default().Languages
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TWELS_* variables read through getenv.
func (cfg *File) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("TWELS_ADDR")); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv("TWELS_GRPC_ADDR")); v != "" {
		cfg.Server.GRPCAddr = v
	}
	if v := strings.TrimSpace(getenv("TWELS_STATIC_DIR")); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := strings.TrimSpace(getenv("TWELS_DB")); v != "" {
		cfg.Store.Path = v
	}
	if v := strings.TrimSpace(getenv("TWELS_SEARCH_BACKEND")); v != "" {
		cfg.Search.BackendURL = v
	}
	if v := strings.TrimSpace(getenv("TWELS_MATHPIX_ID")); v != "" {
		cfg.OCR.AppID = v
	}
	if v := strings.TrimSpace(getenv("TWELS_MATHPIX_KEY")); v != "" {
		cfg.OCR.AppKey = v
	}
	if v := strings.TrimSpace(getenv("TWELS_MDNS_ENABLE")); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.MDNS.Enabled = on
		}
	}
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported config version %d", cfg.Version))
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	if _, err := querycodec.ParseVariant(cfg.Codec.Variant); err != nil {
		errs = append(errs, "codec.variant must be one of v1,v2")
	}
	if cfg.Search.PageSize <= 0 {
		errs = append(errs, "search.page_size must be > 0")
	}
	if cfg.Search.TimeoutSeconds < 0 {
		errs = append(errs, "search.timeout_seconds must be >= 0")
	}
	if cfg.OCR.TimeoutSeconds < 0 {
		errs = append(errs, "ocr.timeout_seconds must be >= 0")
	}
	if cfg.Upload.MaxBytes <= 0 {
		errs = append(errs, "upload.max_bytes must be > 0")
	}
	if _, err := upload.NewAllowlist(cfg.Upload.Allowed); err != nil {
		errs = append(errs, "upload.allowed: "+err.Error())
	}
	if strings.TrimSpace(cfg.Store.Path) == "" {
		errs = append(errs, "store.path is required")
	}

	seen := map[string]struct{}{}
	for i, lang := range cfg.Languages {
		v := strings.TrimSpace(lang.Value)
		if v == "" {
			errs = append(errs, fmt.Sprintf("languages[%d].value is required", i))
			continue
		}
		if _, ok := seen[v]; ok {
			errs = append(errs, fmt.Sprintf("languages[%d].value duplicate %q", i, v))
		}
		seen[v] = struct{}{}
	}

	errs = append(errs, cfg.Keyboard.Validate()...)
	return errs
}
