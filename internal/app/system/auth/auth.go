// internal/app/system/auth/auth.go

// Package auth loads the caller identity supplied by the upstream
// authentication collaborator. The engine trusts that collaborator:
// session handling, SAML, and role policy all live upstream, and this
// package only carries (actorID, role) from the request into context.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Headers the authentication collaborator sets on every proxied request.
const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
)

// Roles the upstream collaborator assigns. The engine only inspects
// them for a few guarded routes.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// Actor is the identity injected into r.Context().
type Actor struct {
	ID   string
	Role string
}

type ctxKey string

const actorKey ctxKey = "actor"

// CurrentActor returns the actor and a "found?" flag.
func CurrentActor(r *http.Request) (Actor, bool) {
	a, ok := r.Context().Value(actorKey).(Actor)
	return a, ok
}

// LoadActor injects the trusted identity headers into context when
// present. It never rejects; RequireActor does that.
func LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(ActorIDHeader))
		if id != "" {
			a := Actor{
				ID:   id,
				Role: strings.ToLower(strings.TrimSpace(r.Header.Get(ActorRoleHeader))),
			}
			r = withActor(r, a)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireActor rejects requests that arrived without an identity.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentActor(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects actors whose role is not in the allowed set.
// Role policy is decided upstream; this is a belt for routes that must
// never be reachable by read-only roles even through a misconfigured
// proxy.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := CurrentActor(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, has := set[a.Role]; !has {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestActor injects an actor directly, bypassing the headers.
// For handler tests only.
func WithTestActor(r *http.Request, a Actor) *http.Request {
	return withActor(r, a)
}

func withActor(r *http.Request, a Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorKey, a))
}
