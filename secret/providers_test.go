package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("HEALTH_DB_URL", "postgres://db/app")
	p := NewEnvProvider()

	got, err := p.Resolve(context.Background(), "HEALTH_DB_URL")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "postgres://db/app" {
		t.Fatalf("Resolve() = %q", got)
	}

	if _, err := p.Resolve(context.Background(), "HEALTH_DEFINITELY_UNSET"); !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestProviderNames(t *testing.T) {
	t.Setenv("HEALTH_EMPTY", "")

	got, err := NewEnvProvider().Resolve(context.Background(), "HEALTH_EMPTY")
	if err != nil || got != "" {
		t.Fatalf("Resolve(empty) = %q, %v; want empty value, no error", got, err)
	}

	for _, p := range []Provider{NewEnvProvider(), &FileProvider{}} {
		ref := "secretref:" + p.Name() + ":x"
		if name, _, ok := ParseSecretRef(ref); !ok || name != p.Name() {
			t.Errorf("ParseSecretRef(%q) = %q, %v", ref, name, ok)
		}
		if err := p.Close(); err != nil {
			t.Errorf("%s Close() error = %v", p.Name(), err)
		}
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "db-password"), []byte("hunter2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("absolute path", func(t *testing.T) {
		p := &FileProvider{}
		got, err := p.Resolve(context.Background(), filepath.Join(dir, "db-password"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != "hunter2" {
			t.Fatalf("Resolve() = %q, want %q", got, "hunter2")
		}
	})

	t.Run("relative to dir", func(t *testing.T) {
		p := &FileProvider{Dir: dir}
		got, err := p.Resolve(context.Background(), "db-password")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != "hunter2" {
			t.Fatalf("Resolve() = %q, want %q", got, "hunter2")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		p := &FileProvider{Dir: dir}
		if _, err := p.Resolve(context.Background(), "absent"); !errors.Is(err, ErrSecretNotFound) {
			t.Fatalf("expected ErrSecretNotFound, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &FileProvider{Dir: dir}
		if _, err := p.Resolve(ctx, "db-password"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestDefaultRegistry_BuiltinProviders(t *testing.T) {
	names := DefaultRegistry.List()
	want := map[string]bool{"env": false, "file": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, found := range want {
		if !found {
			t.Errorf("provider %q not registered", n)
		}
	}
}

func TestNewResolverFromRegistry(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HEALTH_DB_URL", "postgres://db/app")

	r, err := NewResolverFromRegistry(nil, true, map[string]map[string]any{
		"file": {"dir": dir},
	})
	if err != nil {
		t.Fatalf("NewResolverFromRegistry() error = %v", err)
	}
	defer r.Close()

	got, err := r.ResolveValue(context.Background(), "secretref:env:HEALTH_DB_URL")
	if err != nil || got != "postgres://db/app" {
		t.Fatalf("env: ResolveValue() = %q, %v", got, err)
	}

	got, err = r.ResolveValue(context.Background(), "Bearer secretref:file:token")
	if err != nil || got != "Bearer abc" {
		t.Fatalf("file: ResolveValue() = %q, %v", got, err)
	}
}

func TestNewResolverFromRegistry_Errors(t *testing.T) {
	if _, err := NewResolverFromRegistry(nil, true, map[string]map[string]any{"vault": nil}); !errors.Is(err, ErrProviderNotRegistered) {
		t.Fatalf("expected ErrProviderNotRegistered, got %v", err)
	}

	if _, err := NewResolverFromRegistry(nil, true, map[string]map[string]any{"file": {"dir": 7}}); err == nil {
		t.Fatal("expected error for non-string dir")
	}
}
