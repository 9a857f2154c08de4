package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
version: 1
server:
  addr: ":9090"
codec:
  variant: v1
search:
  backend_url: http://solr-front:8983
  page_size: 20
  timeout_seconds: 5
languages:
  - value: en
    label: English
    checked: true
  - value: fr
    label: Français
keyboard:
  panels:
    - name: greek
      keys:
        - label: α
          expr: '\alpha '
`), "test-valid")
	if err != nil {
		t.Fatalf("parse valid config: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Codec.Variant != "v1" {
		t.Fatalf("unexpected server/codec: %+v %+v", cfg.Server, cfg.Codec)
	}
	if cfg.Search.PageSize != 20 || cfg.Search.BackendURL != "http://solr-front:8983" {
		t.Fatalf("unexpected search: %+v", cfg.Search)
	}
	if len(cfg.Languages) != 2 || cfg.Languages[1].Value != "fr" {
		t.Fatalf("unexpected languages: %+v", cfg.Languages)
	}
	if len(cfg.Keyboard.Panels) != 1 || cfg.Keyboard.Panels[0].Keys[0].Expr != `\alpha ` {
		t.Fatalf("unexpected keyboard: %+v", cfg.Keyboard)
	}
	if cfg.Store.Path != "twels.db" || cfg.Upload.MaxBytes != 10<<20 {
		t.Fatalf("defaults not kept: %+v %+v", cfg.Store, cfg.Upload)
	}
}

func TestParseMinimalUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("version: 1\n"), "test-minimal")
	if err != nil {
		t.Fatalf("parse minimal config: %v", err)
	}
	if len(cfg.Keyboard.Panels) == 0 || len(cfg.Languages) == 0 {
		t.Fatalf("defaults missing: %+v", cfg)
	}
	if cfg.Codec.Variant != "v2" {
		t.Fatalf("default variant: %q", cfg.Codec.Variant)
	}
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte("version: 2\n"), "test-version")
	if err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Fatalf("expected unsupported version error, got: %v", err)
	}
}

func TestParseRejectsUnknownVariant(t *testing.T) {
	_, err := Parse([]byte("version: 1\ncodec:\n  variant: v3\n"), "test-variant")
	if err == nil || !strings.Contains(err.Error(), "codec.variant") {
		t.Fatalf("expected codec.variant error, got: %v", err)
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("version: 1\nsearch:\n  backend: x\n"), "test-unknown")
	if err == nil || !strings.Contains(err.Error(), "parse YAML") {
		t.Fatalf("expected parse YAML error, got: %v", err)
	}
}

func TestParseRejectsDuplicateLanguage(t *testing.T) {
	_, err := Parse([]byte(`
version: 1
languages:
  - value: en
  - value: en
`), "test-lang")
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate language error, got: %v", err)
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("version: ["), "test-yaml")
	if err == nil || !strings.Contains(err.Error(), "parse YAML") {
		t.Fatalf("expected parse YAML error, got: %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twels.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nstore:\n  path: /tmp/x.db\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Path != "/tmp/x.db" {
		t.Fatalf("store path: %q", cfg.Store.Path)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"TWELS_ADDR":        ":7000",
		"TWELS_DB":          "/data/twels.db",
		"TWELS_MATHPIX_ID":  "id",
		"TWELS_MATHPIX_KEY": "key",
		"TWELS_MDNS_ENABLE": "false",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Server.Addr != ":7000" || cfg.Store.Path != "/data/twels.db" {
		t.Fatalf("env not applied: %+v %+v", cfg.Server, cfg.Store)
	}
	if cfg.OCR.AppID != "id" || cfg.OCR.AppKey != "key" {
		t.Fatalf("ocr credentials not applied: %+v", cfg.OCR)
	}
	if cfg.MDNS.Enabled {
		t.Fatalf("mdns should be disabled")
	}
}
