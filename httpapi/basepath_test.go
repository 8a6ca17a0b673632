package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{" // ", ""},
		{"matrix", "/matrix"},
		{"  /retro//  ", "/retro"},
		{"/matrix/", "/matrix"},
		{"/site//matrix/", "/site/matrix"},
		{"/matrix/../retro", "/retro"},
	}
	for _, tc := range cases {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMountAt(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	handler := mountAt("/retro", inner)
	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/retro/healthz", http.StatusOK, "/healthz"},
		{"/retro", http.StatusTemporaryRedirect, ""},
		{"/retrofit/healthz", http.StatusNotFound, ""},
		{"/healthz", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: status %d, want %d", tc.path, rec.Code, tc.status)
		}
		if tc.body != "" && rec.Body.String() != tc.body {
			t.Fatalf("%s: body %q, want %q", tc.path, rec.Body.String(), tc.body)
		}
	}
	if got := mountAt("", inner); got == nil {
		t.Fatalf("expected root mount to return the handler")
	}
}
