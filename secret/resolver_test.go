package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type stubProvider struct {
	name   string
	values map[string]string
	err    error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[ref], nil
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		in       string
		provider string
		ref      string
		ok       bool
	}{
		{"secretref:env:ATLASSIAN_TOKEN", "env", "ATLASSIAN_TOKEN", true},
		{"secretref:file:/run/secrets/a:b", "file", "/run/secrets/a:b", true},
		{"secretref:env:", "env", "", true},
		{"secretref::x", "", "", false},
		{"secretref:env", "", "", false},
		{"plain-token", "", "", false},
	}
	for _, tt := range tests {
		provider, ref, ok := ParseSecretRef(tt.in)
		if provider != tt.provider || ref != tt.ref || ok != tt.ok {
			t.Errorf("ParseSecretRef(%q) = %q, %q, %v; want %q, %q, %v",
				tt.in, provider, ref, ok, tt.provider, tt.ref, tt.ok)
		}
	}
}

func TestResolver_PlainValue(t *testing.T) {
	r := DefaultResolver()

	got, err := r.ResolveValue(context.Background(), "plain-token")
	if err != nil || got != "plain-token" {
		t.Fatalf("ResolveValue() = %q, %v", got, err)
	}
	got, err = r.ResolveValue(context.Background(), "")
	if err != nil || got != "" {
		t.Fatalf("ResolveValue(empty) = %q, %v", got, err)
	}
}

func TestResolver_EnvProvider(t *testing.T) {
	t.Setenv("REAL_TOKEN", "s3cr3t")
	r := DefaultResolver()

	got, err := r.ResolveValue(context.Background(), "secretref:env:REAL_TOKEN")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "s3cr3t" {
		t.Fatalf("ResolveValue() = %q, want s3cr3t", got)
	}
}

func TestResolver_EnvProviderMissing(t *testing.T) {
	r := NewResolver(true, EnvProvider{Lookup: func(string) (string, bool) { return "", false }})

	_, err := r.ResolveValue(context.Background(), "secretref:env:NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ResolveValue() error = %v, want ErrNotFound", err)
	}
}

func TestResolver_FileProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(true, FileProvider{Dir: dir})

	got, err := r.ResolveValue(context.Background(), "secretref:file:token")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "from-file" {
		t.Fatalf("ResolveValue() = %q, want from-file", got)
	}

	_, err = r.ResolveValue(context.Background(), "secretref:file:"+filepath.Join(dir, "missing"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing file error = %v, want ErrNotFound", err)
	}
}

func TestResolver_UnknownProvider(t *testing.T) {
	r := NewResolver(true)

	_, err := r.ResolveValue(context.Background(), "secretref:vault:x")
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("ResolveValue() error = %v, want ErrUnknownProvider", err)
	}
}

func TestResolver_EmptyRef(t *testing.T) {
	r := DefaultResolver()

	_, err := r.ResolveValue(context.Background(), "secretref:env:")
	if !errors.Is(err, ErrEmptyRef) {
		t.Fatalf("ResolveValue() error = %v, want ErrEmptyRef", err)
	}
}

func TestResolver_StrictRejectsEmpty(t *testing.T) {
	stub := &stubProvider{name: "stub", values: map[string]string{}}

	_, err := NewResolver(true, stub).ResolveValue(context.Background(), "secretref:stub:a")
	if !errors.Is(err, ErrEmptyValue) {
		t.Fatalf("strict error = %v, want ErrEmptyValue", err)
	}

	got, err := NewResolver(false, stub).ResolveValue(context.Background(), "secretref:stub:a")
	if err != nil || got != "" {
		t.Fatalf("non-strict = %q, %v; want empty", got, err)
	}
}

func TestResolver_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := NewResolver(true, &stubProvider{name: "stub", err: boom})

	_, err := r.ResolveValue(context.Background(), "secretref:stub:a")
	if !errors.Is(err, boom) {
		t.Fatalf("ResolveValue() error = %v, want boom", err)
	}
}

func TestResolver_ExpandsBeforeParsing(t *testing.T) {
	t.Setenv("TOKEN_SOURCE", "secretref:env:INNER")
	t.Setenv("INNER", "inner-value")

	got, err := DefaultResolver().ResolveValue(context.Background(), "${TOKEN_SOURCE}")
	if err != nil || got != "inner-value" {
		t.Fatalf("ResolveValue() = %q, %v", got, err)
	}
}
