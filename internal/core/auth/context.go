// Package auth derives an authenticated identity from a request's bearer
// token and enforces role and ownership checks. It only ever reads; no guard
// operation mutates state.
package auth

import "github.com/userhub/identity-service/internal/core/domain"

// Context is the per-request authentication state: the resolved identity, or
// nothing. It is built once by the HTTP middleware, read-only afterwards, and
// discarded with the request. Never stored globally.
type Context struct {
	identity *domain.User
}

// Anonymous returns the unauthenticated context.
func Anonymous() Context {
	return Context{}
}

// WithIdentity returns a context carrying an authenticated identity.
func WithIdentity(u *domain.User) Context {
	return Context{identity: u}
}

// Authenticated reports whether an identity was resolved.
func (c Context) Authenticated() bool {
	return c.identity != nil
}

// Identity returns the resolved identity, or nil when anonymous.
func (c Context) Identity() *domain.User {
	return c.identity
}
