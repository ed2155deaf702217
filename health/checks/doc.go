// Package checks provides built-in health checkers for common dependencies.
//
// Every checker reports failures as an unhealthy result rather than an
// error, and healthy results carry the check's duration where one was
// measured. Checkers that open their own clients (Redis, MongoDB) do so on
// the first check and reuse the client afterwards; call Close to release it.
package checks
