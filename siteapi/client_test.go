package siteapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Francisco1000/wp-calypso/updates"
)

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		siteID      string
		expectError bool
	}{
		{
			name:        "valid configuration",
			baseURL:     "https://public-api.example.com",
			siteID:      "1234",
			expectError: false,
		},
		{
			name:        "missing site URL",
			baseURL:     "",
			siteID:      "1234",
			expectError: true,
		},
		{
			name:        "missing site ID",
			baseURL:     "https://public-api.example.com",
			siteID:      "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL, tt.siteID, "token")
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFetchItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sites/42/core":
			json.NewEncoder(w).Encode(map[string]any{
				"version": "6.4.2",
				"update":  map[string]string{"new_version": "6.5"},
			})
		case "/sites/42/plugins":
			json.NewEncoder(w).Encode(map[string]any{
				"plugins": []map[string]any{
					{"slug": "akismet", "name": "Akismet", "version": "5.0", "update": map[string]string{"new_version": "5.3"}},
					{"slug": "hello-dolly", "name": "Hello Dolly", "version": "1.7", "update": map[string]string{}},
				},
			})
		case "/sites/42/themes":
			json.NewEncoder(w).Encode(map[string]any{
				"themes": []map[string]any{
					{"id": "twentytwenty", "name": "Twenty Twenty", "version": "2.0", "update": map[string]string{"new_version": "2.5"}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "42", "token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := client.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}

	// Core, then the plugin with a pending update, then the theme.
	// hello-dolly has no update and must be absent.
	want := []struct {
		slug string
		typ  updates.ItemType
	}{
		{"wordpress", updates.TypeCore},
		{"akismet", updates.TypePlugin},
		{"twentytwenty", updates.TypeTheme},
	}
	if len(items) != len(want) {
		t.Fatalf("items = %d, want %d", len(items), len(want))
	}
	for i, w := range want {
		if items[i].Slug != w.slug || items[i].Type != w.typ {
			t.Errorf("items[%d] = %s/%s, want %s/%s", i, items[i].Type, items[i].Slug, w.typ, w.slug)
		}
	}
	if items[0].NewVersion != "6.5" {
		t.Errorf("core NewVersion = %s, want 6.5", items[0].NewVersion)
	}
}

func TestStartUpdateEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		item     updates.Item
		wantPath string
	}{
		{
			name:     "plugin update",
			item:     updates.Item{Slug: "akismet", Type: updates.TypePlugin},
			wantPath: "/sites/42/updates/plugin/akismet",
		},
		{
			name:     "theme update",
			item:     updates.Item{Slug: "twentytwenty", Type: updates.TypeTheme},
			wantPath: "/sites/42/updates/theme/twentytwenty",
		},
		{
			name:     "core update",
			item:     updates.Item{Slug: "wordpress", Type: updates.TypeCore},
			wantPath: "/sites/42/updates/core",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotMethod, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotMethod = r.Method
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusAccepted)
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, "42", "secret")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := client.StartUpdate(context.Background(), tt.item); err != nil {
				t.Fatalf("StartUpdate failed: %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %s, want %s", gotPath, tt.wantPath)
			}
			if gotMethod != http.MethodPost {
				t.Errorf("method = %s, want POST", gotMethod)
			}
			if gotAuth != "Bearer secret" {
				t.Errorf("authorization = %q, want bearer token", gotAuth)
			}
		})
	}
}

func TestStartUpdateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "42", "")
	err := client.StartUpdate(context.Background(), updates.Item{Slug: "akismet", Type: updates.TypePlugin})
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  RawStatus
		want updates.Status
	}{
		{RawUninitialized, updates.StatusNone},
		{RawPending, updates.StatusInProgress},
		{RawFailure, updates.StatusError},
		{RawSuccess, updates.StatusCompleted},
		{RawStatus(""), updates.StatusNone},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStatusKey(t *testing.T) {
	tests := []struct {
		item updates.Item
		want string
	}{
		{updates.Item{Slug: "akismet", Type: updates.TypePlugin}, "plugin-update-42-akismet"},
		{updates.Item{Slug: "twentytwenty", Type: updates.TypeTheme}, "theme-update-42-twentytwenty"},
		{updates.Item{Slug: "wordpress", Type: updates.TypeCore}, "core-update-42"},
	}

	for _, tt := range tests {
		if got := StatusKey("42", tt.item); got != tt.want {
			t.Errorf("StatusKey(%s) = %s, want %s", tt.item.Slug, got, tt.want)
		}
	}
}

func TestApplyStatuses(t *testing.T) {
	items := []updates.Item{
		{Slug: "akismet", Type: updates.TypePlugin},
		{Slug: "twentytwenty", Type: updates.TypeTheme},
	}
	statuses := map[string]RawStatus{
		"plugin-update-42-akismet":      RawPending,
		"theme-update-42-twentytwenty":  RawSuccess,
		"plugin-update-42-unrelated":    RawFailure,
	}

	got := ApplyStatuses("42", items, statuses)
	if got[0].Status != updates.StatusInProgress {
		t.Errorf("akismet status = %q, want inProgress", got[0].Status)
	}
	if got[1].Status != updates.StatusCompleted {
		t.Errorf("twentytwenty status = %q, want completed", got[1].Status)
	}
	// Input slice untouched.
	if items[0].Status != updates.StatusNone {
		t.Error("ApplyStatuses mutated its input")
	}
}
