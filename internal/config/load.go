package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pleme-io/pleme-health/secret"
)

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Load reads, defaults and validates the configuration file at path.
// Secret references are left unresolved; see ResolveSecrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default, fills per-check defaults and validates
// the result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Checks {
		if c.Checks[i].Type == TypeHTTP && c.Checks[i].ExpectedStatus == 0 {
			c.Checks[i].ExpectedStatus = http.StatusOK
		}
	}
}

// Validate reports the first class of problem found: field constraints,
// type-specific required fields, then observer settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fieldPath(fe)+" "+describe(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for i, check := range c.Checks {
		if field := check.missingField(); field != "" {
			return fmt.Errorf("%w: checks[%d] %q of type %s needs %s", ErrMissingCheckField, i, check.Name, check.Type, field)
		}
	}

	obsCfg := c.ObserverConfig()
	if err := obsCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (cc CheckConfig) missingField() string {
	switch cc.Type {
	case TypePostgres:
		if cc.DSN == "" {
			return "dsn"
		}
	case TypeSQLite:
		if cc.Path == "" {
			return "path"
		}
	case TypeRedis, TypeMongoDB, TypeHTTP:
		if cc.URL == "" {
			return "url"
		}
	}
	return ""
}

// fieldPath drops the root type name: Config.checks[0].type -> checks[0].type.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// ResolveSecrets expands ${VAR} references and secretref: values in every
// connection field and header of the configured checks.
func (c *Config) ResolveSecrets(ctx context.Context, r *secret.Resolver) error {
	for i := range c.Checks {
		check := &c.Checks[i]
		for _, field := range []*string{&check.DSN, &check.Path, &check.URL} {
			if *field == "" {
				continue
			}
			resolved, err := r.ResolveValue(ctx, *field)
			if err != nil {
				return fmt.Errorf("check %q: %w", check.Name, err)
			}
			*field = resolved
		}

		headers, err := r.ResolveMap(ctx, check.Headers)
		if err != nil {
			return fmt.Errorf("check %q: %w", check.Name, err)
		}
		check.Headers = headers
	}
	return nil
}

// NewResolver builds the secret resolver described by the secrets section.
func (c *Config) NewResolver() (*secret.Resolver, error) {
	return secret.NewResolverFromRegistry(secret.DefaultRegistry, c.Secrets.Strict, c.Secrets.Providers)
}
