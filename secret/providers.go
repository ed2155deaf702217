package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider looks up the value behind the ref part of secretref:<name>:<ref>.
// Resolve runs once per referencing config value at startup. Values must
// never be logged.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// EnvProvider resolves references by environment variable name.
//
//	secretref:env:DATABASE_URL
type EnvProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvProvider creates a provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// Name returns "env", the provider segment of secretref:env:<VAR>.
func (p *EnvProvider) Name() string { return "env" }

// Resolve returns the value of the environment variable ref. An unset
// variable yields ErrSecretNotFound; a set but empty one resolves to "".
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.lookup(ref)
	if !ok {
		return "", fmt.Errorf("%w: environment variable %s", ErrSecretNotFound, ref)
	}
	return v, nil
}

// Close is a no-op.
func (p *EnvProvider) Close() error { return nil }

// FileProvider resolves references by reading files, as mounted by
// Kubernetes or Docker secrets. Relative references are joined to Dir.
// A single trailing newline is trimmed.
//
//	secretref:file:/run/secrets/db-password
type FileProvider struct {
	Dir string
}

// Name returns "file", the provider segment of secretref:file:<path>.
func (p *FileProvider) Name() string { return "file" }

// Resolve reads the file at ref, relative to Dir when ref is not absolute.
// A missing file yields ErrSecretNotFound.
func (p *FileProvider) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := ref
	if !filepath.IsAbs(path) && p.Dir != "" {
		path = filepath.Join(p.Dir, path)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: file %s", ErrSecretNotFound, path)
	}
	if err != nil {
		return "", err
	}

	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// Close is a no-op.
func (p *FileProvider) Close() error { return nil }

func init() {
	_ = DefaultRegistry.Register("env", func(map[string]any) (Provider, error) {
		return NewEnvProvider(), nil
	})
	_ = DefaultRegistry.Register("file", func(cfg map[string]any) (Provider, error) {
		p := &FileProvider{}
		if dir, ok := cfg["dir"]; ok {
			s, ok := dir.(string)
			if !ok {
				return nil, fmt.Errorf("file provider: dir must be a string, got %T", dir)
			}
			p.Dir = s
		}
		return p, nil
	})
}
