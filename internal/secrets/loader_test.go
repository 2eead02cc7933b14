package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key")
	if err := os.WriteFile(file, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("JOB_ASSISTANT_TEST_KEY", " from-env ")

	tests := []struct {
		name   string
		src    Source
		expect string
	}{
		{name: "file wins", src: Source{File: file, Env: "JOB_ASSISTANT_TEST_KEY", Value: "inline"}, expect: "from-file"},
		{name: "env over inline", src: Source{Env: "JOB_ASSISTANT_TEST_KEY", Value: "inline"}, expect: "from-env"},
		{name: "inline", src: Source{Value: " inline "}, expect: "inline"},
		{name: "unset env falls back to inline", src: Source{Env: "JOB_ASSISTANT_UNSET", Value: "inline"}, expect: "inline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(Source{Name: "gemini api key", File: empty}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	if _, err := Load(Source{Name: "gemini api key", File: filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected missing file error")
	}

	_, err := Load(Source{Name: "gemini api key", Env: "JOB_ASSISTANT_UNSET"})
	if err == nil || !strings.Contains(err.Error(), "JOB_ASSISTANT_UNSET") {
		t.Fatalf("expected hint about env variable, got %v", err)
	}
}
