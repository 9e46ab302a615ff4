package vault

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"vaultagent/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.BackendConfig{
		BaseURL:    server.URL,
		CanisterID: "u6s2n-gx777-77774-qaaba-cai",
	}, zerolog.Nop())
}

func TestCallPostsJSONWithCanisterHost(t *testing.T) {
	var gotHost, gotPath, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"balance":100}`))
	})

	raw, err := client.Call(context.Background(), "/balance", map[string]string{"owner": "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotHost != "u6s2n-gx777-77774-qaaba-cai.localhost" {
		t.Fatalf("unexpected host header: %s", gotHost)
	}
	if gotPath != "/balance" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotBody != `{"owner":"alice"}` {
		t.Fatalf("unexpected body: %s", gotBody)
	}
	if string(raw) != `{"balance":100}` {
		t.Fatalf("unexpected payload: %s", raw)
	}
}

func TestCallNonSuccessStatusIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "canister trapped", http.StatusInternalServerError)
	})

	if _, err := client.Call(context.Background(), "/vault-info", map[string]string{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestCallRejectsNonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	if _, err := client.Call(context.Background(), "/products", map[string]string{}); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestCheckAdmin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode admin check body: %v", err)
		}
		if body["principal"] != "alice" {
			t.Fatalf("expected principal field, got %v", body)
		}
		w.Write([]byte(`{"is_admin":true}`))
	})

	isAdmin, err := client.CheckAdmin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isAdmin {
		t.Fatal("expected admin grant")
	}
}
