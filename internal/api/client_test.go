package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"draftline/internal/api"
	"draftline/internal/domain"
)

type recorded struct {
	path      string
	auth      string
	requestID string
	body      map[string]any
}

// newFakeService routes like the real drafting service, including its strict
// trailing slash on the project collection.
func newFakeService(t *testing.T, last *recorded) *httptest.Server {
	t.Helper()
	capture := func(r *http.Request) {
		last.path = r.URL.Path
		last.auth = r.Header.Get("Authorization")
		last.requestID = r.Header.Get("X-Request-ID")
		last.body = nil
		if r.Header.Get("Content-Type") == "application/json" {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				last.body = body
			}
		}
	}
	router := chi.NewRouter()
	router.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostFormValue("username") != "p@example.com" || r.PostFormValue("password") != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"detail": "Incorrect email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-123"})
	})
	router.Get("/projects/", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		json.NewEncoder(w).Encode([]domain.Project{{ID: 1, Title: "Plan", DocType: domain.DocTypeWord, Status: domain.StatusDraft}})
	})
	router.Post("/projects/", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		var detail domain.ProjectDetail
		detail.ID = 9
		detail.Title, _ = last.body["title"].(string)
		detail.Status = domain.StatusDraft
		json.NewEncoder(w).Encode(detail)
	})
	router.Get("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		var detail domain.ProjectDetail
		detail.ID = 9
		detail.Title = "Plan"
		json.NewEncoder(w).Encode(detail)
	})
	router.Post("/sections/{id}/refine", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		if prompt, _ := last.body["prompt"].(string); prompt == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{"detail": []map[string]any{
				{"msg": "String should have at least 1 character"},
				{"msg": "field required"},
			}})
			return
		}
		json.NewEncoder(w).Encode(domain.Section{ID: 5, Content: "refined"})
	})
	router.Get("/export/{id}", func(w http.ResponseWriter, r *http.Request) {
		capture(r)
		w.Header().Set("Content-Disposition", `attachment; filename="Plan.docx"`)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Write([]byte{0x50, 0x4b, 0x03, 0x04})
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestBearerAndRequestIDAttached(t *testing.T) {
	var last recorded
	srv := newFakeService(t, &last)
	client := api.New(srv.URL)
	client.Token = "tok-123"

	if _, err := client.GetProject(context.Background(), 9); err != nil {
		t.Fatalf("get project: %v", err)
	}
	if last.auth != "Bearer tok-123" {
		t.Fatalf("missing bearer header: %q", last.auth)
	}
	if last.requestID == "" {
		t.Fatalf("missing request id header")
	}

	// unauthenticated requests simply carry no Authorization header
	client.Token = ""
	if _, err := client.GetProject(context.Background(), 9); err != nil {
		t.Fatalf("get project: %v", err)
	}
	if last.auth != "" {
		t.Fatalf("unexpected auth header: %q", last.auth)
	}
}

func TestProjectCollectionSlashNormalized(t *testing.T) {
	var last recorded
	srv := newFakeService(t, &last)
	client := api.New(srv.URL)

	// the fake only routes /projects/, so the call succeeds iff the client
	// normalized the path
	items, err := client.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Plan" {
		t.Fatalf("unexpected projects: %+v", items)
	}
	if last.path != "/projects/" {
		t.Fatalf("path not normalized: %q", last.path)
	}

	if _, err := client.CreateProject(context.Background(), "Plan", "topic", domain.DocTypeWord, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if last.path != "/projects/" {
		t.Fatalf("create path not normalized: %q", last.path)
	}
}

func TestLoginFormEncoded(t *testing.T) {
	var last recorded
	srv := newFakeService(t, &last)
	client := api.New(srv.URL)

	token, err := client.Login(context.Background(), "p@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token %q", token)
	}

	_, err = client.Login(context.Background(), "p@example.com", "wrong")
	var svcErr *api.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if svcErr.Status != http.StatusUnauthorized || svcErr.Detail != "Incorrect email or password" {
		t.Fatalf("unexpected service error: %+v", svcErr)
	}
}

func TestFieldErrorListJoined(t *testing.T) {
	var last recorded
	srv := newFakeService(t, &last)
	client := api.New(srv.URL)

	_, err := client.RefineSection(context.Background(), 5, "")
	var svcErr *api.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	want := "String should have at least 1 character, field required"
	if svcErr.Detail != want {
		t.Fatalf("detail = %q, want %q", svcErr.Detail, want)
	}
}

func TestExportFilenameFromDisposition(t *testing.T) {
	var last recorded
	srv := newFakeService(t, &last)
	client := api.New(srv.URL)

	data, filename, err := client.Export(context.Background(), 9, domain.DocTypeWord)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("unexpected payload length %d", len(data))
	}
	if filename != "Plan.docx" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestNetworkErrorWrapped(t *testing.T) {
	client := api.New("http://127.0.0.1:1")
	_, err := client.ListProjects(context.Background())
	var netErr *api.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}
