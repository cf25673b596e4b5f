package envconfig

import (
	"runtime"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ALTBPE_DEBUG", "1")
	t.Setenv("ALTBPE_DB", "  'vocab.db' ")
	t.Setenv("ALTBPE_NUM_WORKERS", "3")
	t.Setenv("ALTBPE_MAX_MERGES", "512")
	LoadConfig()

	if !Debug {
		t.Error("expected Debug to be set")
	}
	if Database != "vocab.db" {
		t.Errorf("Database = %q, want trimmed %q", Database, "vocab.db")
	}
	if NumWorkers != 3 {
		t.Errorf("NumWorkers = %d, want 3", NumWorkers)
	}
	if MaxMerges != 512 {
		t.Errorf("MaxMerges = %d, want 512", MaxMerges)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("ALTBPE_NUM_WORKERS", "banana")
	t.Setenv("ALTBPE_MAX_MERGES", "-3")
	LoadConfig()

	if NumWorkers != runtime.NumCPU() {
		t.Errorf("NumWorkers = %d, want NumCPU fallback", NumWorkers)
	}
	if MaxMerges != 0 {
		t.Errorf("MaxMerges = %d, want 0 fallback", MaxMerges)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ALTBPE_DEBUG", "")
	t.Setenv("ALTBPE_NUM_WORKERS", "")
	t.Setenv("ALTBPE_MAX_MERGES", "")
	LoadConfig()

	if Debug {
		t.Error("expected Debug to be unset")
	}
	if NumWorkers != runtime.NumCPU() {
		t.Errorf("NumWorkers = %d, want NumCPU", NumWorkers)
	}
	if MaxMerges != 0 {
		t.Errorf("MaxMerges = %d, want 0", MaxMerges)
	}
}
