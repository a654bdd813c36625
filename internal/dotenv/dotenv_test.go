package dotenv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFilesAreSkipped(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), ".env.local")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_FirstFileWinsOverSecond(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	base := filepath.Join(dir, ".env")
	if err := os.WriteFile(local, []byte("SHARED=from_local\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(base, []byte("SHARED=from_base\nONLY_BASE=yes\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("SHARED", "")
	_ = os.Unsetenv("SHARED")
	t.Setenv("ONLY_BASE", "")
	_ = os.Unsetenv("ONLY_BASE")

	if err := Load(local, base); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("SHARED"); got != "from_local" {
		t.Fatalf("SHARED=%q, want from_local", got)
	}
	if got := os.Getenv("ONLY_BASE"); got != "yes" {
		t.Fatalf("ONLY_BASE=%q", got)
	}
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		line string
		key  string
		val  string
		ok   bool
	}{
		{"# comment", "", "", false},
		{"", "", "", false},
		{"NOEQUALS", "", "", false},
		{"KEY=value", "KEY", "value", true},
		{"export KEY=value", "KEY", "value", true},
		{`KEY="hello world"`, "KEY", "hello world", true},
		{"KEY='single'", "KEY", "single", true},
		{"KEY=value # trailing", "KEY", "value", true},
		{`KEY="kept # inside"`, "KEY", "kept # inside", true},
	}
	for _, tc := range cases {
		key, val, ok := parseLine(tc.line)
		if key != tc.key || val != tc.val || ok != tc.ok {
			t.Fatalf("parseLine(%q)=(%q,%q,%v), want (%q,%q,%v)", tc.line, key, val, ok, tc.key, tc.val, tc.ok)
		}
	}
}

func TestLoad_PreservesExistingEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	if err := os.WriteFile(path, []byte("ASSISTANT_BACKEND_TOKEN=from_file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ASSISTANT_BACKEND_TOKEN", "already_set")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("ASSISTANT_BACKEND_TOKEN"); got != "already_set" {
		t.Fatalf("token=%q, want existing value preserved", got)
	}
}
