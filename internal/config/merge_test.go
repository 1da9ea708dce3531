package config

import (
	"strings"
	"testing"
)

func TestMergeOverlayWins(t *testing.T) {
	base := &Config{Version: 1, PHPBinary: "php", InstalledJSON: "/base.json", Format: FormatText}
	overlay := &Config{PHPBinary: "/opt/php", ExtensionSuffix: ".dll"}

	got, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	want := Config{Version: 1, PHPBinary: "/opt/php", InstalledJSON: "/base.json", ExtensionSuffix: ".dll", Format: FormatText}
	if *got != want {
		t.Errorf("Merge = %+v, want %+v", *got, want)
	}
}

func TestMergeNil(t *testing.T) {
	cfg := &Config{Version: 1}
	if got, _ := Merge(nil, cfg); got != cfg {
		t.Error("Merge(nil, cfg) should return cfg")
	}
	if got, _ := Merge(cfg, nil); got != cfg {
		t.Error("Merge(cfg, nil) should return cfg")
	}
}

func TestMergeVersionMismatch(t *testing.T) {
	_, err := Merge(&Config{Version: 1}, &Config{Version: 2})
	if err == nil {
		t.Fatal("expected version mismatch error")
	}
	if !strings.Contains(err.Error(), "version mismatch") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestMergeAll(t *testing.T) {
	got, err := MergeAll([]*Config{
		{Version: 1, Format: FormatText},
		{Format: FormatJSON},
		{Snapshot: "/runtime.yaml"},
	})
	if err != nil {
		t.Fatalf("MergeAll: %v", err)
	}
	if got.Version != 1 || got.Format != FormatJSON || got.Snapshot != "/runtime.yaml" {
		t.Errorf("MergeAll = %+v", got)
	}

	if _, err := MergeAll(nil); err == nil {
		t.Error("expected error for empty input")
	}
}
