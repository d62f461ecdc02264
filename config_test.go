package metacache

import (
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("METACACHE_REFRESH_INTERVAL", "90s")
	t.Setenv("METACACHE_ENCODING", "cbor")
	t.Setenv("METACACHE_DISABLED", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}

	var opts Options
	if err := cfg.Apply(&opts); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if opts.RefreshInterval != 90*time.Second || opts.Encoding != EncodingCBOR || !opts.Disabled {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	var opts Options
	if err := cfg.Apply(&opts); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if opts.RefreshInterval != 5*time.Minute || opts.Encoding != EncodingMsgpack || opts.Disabled {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestConfigRejectsUnknownEncoding(t *testing.T) {
	cfg := Config{Encoding: "xml"}
	var opts Options
	if err := cfg.Apply(&opts); err == nil {
		t.Fatalf("unknown encoding accepted")
	}
}
