package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"holmes/internal/actions"
	"holmes/internal/alert"
	"holmes/internal/render"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func newTestApp() *fiber.App {
	r := render.New(nil)
	app := fiber.New()
	app.Get("/api/actions", NewActionsHandler(actions.Default(r, nil)).List)
	templates := NewTemplatesHandler(r)
	app.Get("/api/templates", templates.List)
	app.Get("/api/templates/:name", templates.Preview)
	app.Post("/api/classify", NewClassifyHandler(alert.New(alert.DefaultPatterns)).Classify)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, env
}

func TestActionsHandler_List(t *testing.T) {
	code, env := do(t, newTestApp(), http.MethodGet, "/api/actions", "")
	if code != fiber.StatusOK || env.Status != "ok" {
		t.Fatalf("code = %d, env = %+v", code, env)
	}

	var list []ActionInfo
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != len(actions.AllKinds()) {
		t.Errorf("listed %d actions, want %d", len(list), len(actions.AllKinds()))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("actions not sorted at %d: %s >= %s", i, list[i-1].ID, list[i].ID)
		}
	}
}

func TestTemplatesHandler(t *testing.T) {
	app := newTestApp()

	code, env := do(t, app, http.MethodGet, "/api/templates", "")
	if code != fiber.StatusOK {
		t.Fatalf("code = %d", code)
	}
	var names []string
	if err := json.Unmarshal(env.Data, &names); err != nil {
		t.Fatal(err)
	}
	if len(names) != len(render.Names()) {
		t.Errorf("listed %d templates, want %d", len(names), len(render.Names()))
	}

	tests := []struct {
		name string
		path string
		want int
	}{
		{"preview", "/api/templates/selection?user=U0REPORT1&label=Traffic%20Drop", fiber.StatusOK},
		{"preview with timestamp", "/api/templates/incident_alert?ts=1700000000&channel=C0SOURCE1", fiber.StatusOK},
		{"unknown template", "/api/templates/nope", fiber.StatusNotFound},
		{"bad user", "/api/templates/selection?user=bob", fiber.StatusBadRequest},
		{"bad channel", "/api/templates/selection?channel=general", fiber.StatusBadRequest},
		{"bad timestamp", "/api/templates/incident_alert?ts=yesterday", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, app, http.MethodGet, tt.path, "")
			if code != tt.want {
				t.Errorf("code = %d, want %d (%+v)", code, tt.want, env)
			}
		})
	}
}

func TestTemplatesHandler_PreviewBody(t *testing.T) {
	_, env := do(t, newTestApp(), http.MethodGet, "/api/templates/selection?user=U0REPORT1&label=Traffic%20Drop", "")

	var msg struct {
		Text   string            `json:"text"`
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatal(err)
	}
	if len(msg.Blocks) == 0 {
		t.Error("preview has no blocks")
	}
	if !strings.Contains(string(env.Data), "U0REPORT1") || !strings.Contains(string(env.Data), "Traffic Drop") {
		t.Errorf("preview missing params: %s", env.Data)
	}
}

func TestClassifyHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		code     int
		detected bool
		category alert.Category
	}{
		{"overspend", `{"text":"OVERSPEND detected"}`, fiber.StatusOK, true, alert.CategoryRevenue},
		{"5xx", `{"text":"5xx spike on eu-west"}`, fiber.StatusOK, true, alert.CategoryErrors},
		{"empty", `{"text":""}`, fiber.StatusOK, false, ""},
		{"no triggers", `{"text":"lunch is ready"}`, fiber.StatusOK, false, ""},
		{"invalid json", `{"text":`, fiber.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, newTestApp(), http.MethodPost, "/api/classify", tt.body)
			if code != tt.code {
				t.Fatalf("code = %d, want %d", code, tt.code)
			}
			if code != fiber.StatusOK {
				if env.Status != "error" {
					t.Errorf("status = %q, want error", env.Status)
				}
				return
			}
			var resp ClassifyResponse
			if err := json.Unmarshal(env.Data, &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Detected != tt.detected || resp.Category != tt.category {
				t.Errorf("got %+v, want detected=%v category=%q", resp, tt.detected, tt.category)
			}
		})
	}
}
