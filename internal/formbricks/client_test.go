package formbricks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seedlabs/formseed/internal/seed"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:      url,
		APIKey:       "test-key",
		Timeout:      2 * time.Second,
		ProbeTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}

func TestProbe(t *testing.T) {
	var status int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("path = %q, want /api/health", r.URL.Path)
		}
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	status = http.StatusOK
	if err := c.Probe(context.Background()); err != nil {
		t.Errorf("Probe() error for 200: %v", err)
	}

	status = http.StatusServiceUnavailable
	if err := c.Probe(context.Background()); err == nil {
		t.Error("Probe() expected error for 503")
	}
}

func TestProbe_ConnectionRefused(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	if err := c.Probe(context.Background()); err == nil {
		t.Error("Probe() expected error for unreachable target")
	}
}

func TestCreateUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/management/users" {
			t.Errorf("path = %q, want /api/management/users", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		var user seed.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if user.Email != "ada@example.com" {
			t.Errorf("email = %q, want ada@example.com", user.Email)
		}

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.CreateUser(context.Background(), seed.User{
		Name: "Ada", Email: "ada@example.com", Role: "Owner",
	})
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
}

func TestCreateUser_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "email already exists"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.CreateUser(context.Background(), seed.User{
		Name: "Dup", Email: "dup@example.com", Role: "Manager",
	})
	if err == nil {
		t.Fatal("CreateUser() expected error for 409")
	}
}

func TestCreateSurvey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/management/surveys" {
			t.Errorf("path = %q, want /api/management/surveys", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		// Responses must not be part of the creation payload.
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if _, ok := body["responses"]; ok {
			t.Error("creation payload contains responses")
		}
		if _, ok := body["questions"]; !ok {
			t.Error("creation payload missing questions")
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "srv_123"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	id, err := c.CreateSurvey(context.Background(), seed.Survey{
		Name:      "NPS",
		Questions: []seed.Question{{Type: "openText", Headline: "Score?"}},
		Responses: []seed.Response{{Data: map[string]any{"q1": "9"}}},
	})
	if err != nil {
		t.Fatalf("CreateSurvey() error: %v", err)
	}
	if id != "srv_123" {
		t.Errorf("id = %q, want srv_123", id)
	}
}

func TestCreateSurvey_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.CreateSurvey(context.Background(), seed.Survey{Name: "NPS"})
	if err == nil {
		t.Fatal("CreateSurvey() expected error for missing id")
	}
}

func TestCreateResponse_Unauthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/client/surveys/srv_123/responses" {
			t.Errorf("path = %q, want /api/client/surveys/srv_123/responses", r.URL.Path)
		}
		// The client API takes no credentials.
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.CreateResponse(context.Background(), "srv_123", seed.Response{
		Data: map[string]any{"q1": "9"},
	})
	if err != nil {
		t.Fatalf("CreateResponse() error: %v", err)
	}
}

func TestCreateResponse_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.CreateResponse(context.Background(), "srv_123", seed.Response{
		Data: map[string]any{"q1": "9"},
	})
	if err == nil {
		t.Fatal("CreateResponse() expected error for 500")
	}
}
