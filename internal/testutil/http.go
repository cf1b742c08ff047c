package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/courseforge/courseforge/internal/app/system/auth"
)

// OwnerActor returns an actor with the owner role.
func OwnerActor() auth.Actor {
	return auth.Actor{ID: "owner-1", Role: auth.RoleOwner}
}

// StaffActor returns an actor with the staff role.
func StaffActor() auth.Actor {
	return auth.Actor{ID: "staff-1", Role: auth.RoleStaff}
}

// AdminActor returns an actor with the admin role.
func AdminActor() auth.Actor {
	return auth.Actor{ID: "admin-1", Role: auth.RoleAdmin}
}

// WithActor adds an actor to the request context for testing
// authenticated handlers, bypassing the header middleware.
func WithActor(r *http.Request, a auth.Actor) *http.Request {
	return auth.WithTestActor(r, a)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target string, body any) *http.Request {
	buf, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with an actor in context.
func NewAuthenticatedRequest(method, target string, a auth.Actor) *http.Request {
	return WithActor(httptest.NewRequest(method, target, nil), a)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q (body: %s)", expected, r.Body.String())
	}
}

// DecodeJSON unmarshals the response body into out.
func (r *ResponseRecorder) DecodeJSON(t interface{ Fatalf(string, ...any) }, out any) {
	if err := json.Unmarshal(r.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response JSON: %v (body: %s)", err, r.Body.String())
	}
}
