// Package secret resolves environment variables and secret references in
// configuration values.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:DATABASE_URL
//   - Inline use:  Bearer secretref:file:/run/secrets/api-token
//
// The env and file providers are registered in DefaultRegistry.
package secret
