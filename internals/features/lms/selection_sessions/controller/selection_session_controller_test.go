package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	selDTO "lmsku_backend/internals/features/lms/selection_sessions/dto"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
	helper "lmsku_backend/internals/helpers"
)

type listSource struct{ rows []string }

func (s *listSource) visible(f selSvc.Filter) []string {
	out := []string{}
	for _, r := range s.rows {
		if q := f.Get("q"); q != "" && !strings.Contains(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *listSource) Count(_ context.Context, f selSvc.Filter) (int64, error) {
	return int64(len(s.visible(f))), nil
}

func (s *listSource) MatchIDs(_ context.Context, f selSvc.Filter, ids []string) ([]string, error) {
	set := map[string]bool{}
	for _, r := range s.visible(f) {
		set[r] = true
	}
	out := []string{}
	for _, id := range ids {
		if set[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type selectionBody struct {
	Scope       string   `json:"scope"`
	Count       int      `json:"count"`
	Selected    []string `json:"selected_ids"`
	Excluded    []string `json:"excluded_ids"`
	FilterReset bool     `json:"filter_reset"`
	Header      *struct {
		Checked       bool `json:"checked"`
		Indeterminate bool `json:"indeterminate"`
	} `json:"header"`
}

func newTestApp(t *testing.T, owner uuid.UUID, rows ...string) *fiber.App {
	t.Helper()
	svc := selSvc.NewService(selSvc.NewMemoryStore(), time.Hour)
	svc.Register("learning_paths", &listSource{rows: rows}, "q")

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if owner != uuid.Nil {
			c.Locals(helper.LocUserID, owner.String())
		}
		return c.Next()
	})
	ctl := NewSelectionController(svc)
	g := app.Group("/selections/:list_key")
	g.Get("/", ctl.Get)
	g.Post("/rows", ctl.ToggleRow)
	g.Post("/page", ctl.TogglePage)
	g.Post("/all", ctl.SelectAll)
	g.Post("/header", ctl.Header)
	g.Delete("/", ctl.Clear)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, selectionBody) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var sel selectionBody
	if len(env.Data) > 0 && env.Data[0] == '{' {
		require.NoError(t, json.Unmarshal(env.Data, &sel))
	}
	return resp.StatusCode, sel
}

func TestSelectionFlowOverHTTP(t *testing.T) {
	app := newTestApp(t, uuid.New(), "go-1", "go-2", "go-3", "rust-1")

	code, sel := do(t, app, "POST", "/selections/learning_paths/page?q=go", `{"checked":true,"visible_ids":["go-1","go-2"]}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "page", sel.Scope)
	assert.Equal(t, 2, sel.Count)
	require.NotNil(t, sel.Header)
	assert.True(t, sel.Header.Checked)

	code, sel = do(t, app, "POST", "/selections/learning_paths/all?q=go", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "all", sel.Scope)
	assert.Equal(t, 3, sel.Count)

	_, sel = do(t, app, "POST", "/selections/learning_paths/rows?q=go", `{"id":"go-2","checked":false}`)
	assert.Equal(t, []string{"go-2"}, sel.Excluded)
	assert.Equal(t, 2, sel.Count)

	_, sel = do(t, app, "GET", "/selections/learning_paths?q=go&visible_ids=go-1,go-2", "")
	require.NotNil(t, sel.Header)
	assert.False(t, sel.Header.Checked)
	assert.True(t, sel.Header.Indeterminate)

	// filter berubah → reset
	_, sel = do(t, app, "GET", "/selections/learning_paths?q=rust", "")
	assert.True(t, sel.FilterReset)
	assert.Equal(t, "none", sel.Scope)
	assert.Equal(t, 0, sel.Count)
}

func TestSelectionClear(t *testing.T) {
	app := newTestApp(t, uuid.New(), "a", "b")

	_, sel := do(t, app, "POST", "/selections/learning_paths/rows", `{"id":"a","checked":true}`)
	assert.Equal(t, 1, sel.Count)

	code, _ := do(t, app, "DELETE", "/selections/learning_paths", "")
	assert.Equal(t, fiber.StatusOK, code)

	_, sel = do(t, app, "GET", "/selections/learning_paths", "")
	assert.Equal(t, "none", sel.Scope)
	assert.Empty(t, sel.Selected)
}

func TestSelectionErrors(t *testing.T) {
	app := newTestApp(t, uuid.New(), "a")

	code, _ := do(t, app, "POST", "/selections/learning_paths/rows", `{"id":""}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = do(t, app, "POST", "/selections/learning_paths/rows", `not-json`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, "GET", "/selections/unknown", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	anon := newTestApp(t, uuid.Nil, "a")
	code, _ = do(t, anon, "GET", "/selections/learning_paths", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestHeaderEndpoint(t *testing.T) {
	app := newTestApp(t, uuid.New(), "a", "b", "c")

	do(t, app, "POST", "/selections/learning_paths/rows", `{"id":"a","checked":true}`)

	req := httptest.NewRequest("POST", "/selections/learning_paths/header", strings.NewReader(`{"visible_ids":["a","b"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var env struct {
		Data struct {
			Checked       bool `json:"checked"`
			Indeterminate bool `json:"indeterminate"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Data.Checked)
	assert.True(t, env.Data.Indeterminate)
}

func TestVisibleIDsQueryOverLimit(t *testing.T) {
	app := newTestApp(t, uuid.New(), "a")

	ids := make([]string, selDTO.MaxVisibleIDs+1)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	q := "?visible_ids=" + strings.Join(ids, ",")

	code, _ := do(t, app, "GET", "/selections/learning_paths"+q, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	code, _ = do(t, app, "POST", "/selections/learning_paths/all"+q, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	// seleksi tidak tersentuh
	_, sel := do(t, app, "GET", "/selections/learning_paths?visible_ids="+strings.Join(ids[:selDTO.MaxVisibleIDs], ","), "")
	assert.Equal(t, "none", sel.Scope)
}
