// Package auth resolves the caller of a request.
//
// Identity issuance is not handled here. A Resolver only recognises callers
// that some other system has already authenticated, either through a signed
// session cookie (SessionManager) or a bearer token (JWTVerifier).
package auth

import (
	"context"
	"net/http"
)

// Caller is the authenticated principal behind a request.
type Caller struct {
	ID     string
	Name   string
	Email  string
	Role   string
	Source string // "session" or "jwt"
}

// Resolver finds the caller of a request. ok is false when the request
// carries no valid identity.
type Resolver interface {
	Resolve(r *http.Request) (c *Caller, ok bool)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(r *http.Request) (*Caller, bool)

func (f ResolverFunc) Resolve(r *http.Request) (*Caller, bool) { return f(r) }

// Chain tries each resolver in order and returns the first caller found.
// Nil resolvers are skipped.
func Chain(rs ...Resolver) Resolver {
	return ResolverFunc(func(r *http.Request) (*Caller, bool) {
		for _, res := range rs {
			if res == nil {
				continue
			}
			if c, ok := res.Resolve(r); ok && c != nil {
				return c, true
			}
		}
		return nil, false
	})
}

type ctxKey string

const currentCallerKey ctxKey = "currentCaller"

// CurrentCaller returns the caller stored by LoadCaller, if any.
func CurrentCaller(r *http.Request) (*Caller, bool) {
	c, ok := r.Context().Value(currentCallerKey).(*Caller)
	return c, ok && c != nil
}

// WithCaller returns r with c stored as the current caller.
func WithCaller(r *http.Request, c *Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentCallerKey, c))
}

// LoadCaller resolves the caller once per request and stores it in the
// context. Requests without a caller pass through unchanged; whether a route
// needs one is decided by the handler.
func LoadCaller(res Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if res != nil {
				if c, ok := res.Resolve(r); ok {
					r = WithCaller(r, c)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
