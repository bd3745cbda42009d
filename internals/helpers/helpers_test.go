package helper

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	p := ParseQuery(map[string]string{"page": "3", "per_page": "999", "order": "ASC"}, "created_at", "desc", AdminOpts)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 500, p.PerPage)
	assert.Equal(t, "asc", p.SortOrder)
	assert.Equal(t, "created_at", p.SortBy)
	assert.Equal(t, 1000, p.Offset())

	p = ParseQuery(map[string]string{"page": "-1", "limit": "abc"}, "title", "sideways", DefaultOpts)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PerPage)
	assert.Equal(t, "desc", p.SortOrder)

	p = ParseQuery(map[string]string{"page": "4", "per_page": "all"}, "title", "asc", ExportOpts)
	assert.True(t, p.All)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10_000, p.PerPage)
}

func TestOrderClauseFallsBackToDefault(t *testing.T) {
	allowed := map[string]string{"title": "lp_title", "created_at": "lp_created_at"}
	p := Params{SortBy: "title", SortOrder: "asc"}
	assert.Equal(t, "lp_title ASC", p.OrderClause(allowed, "created_at"))

	p = Params{SortBy: "1;drop table", SortOrder: "desc"}
	assert.Equal(t, "lp_created_at DESC", p.OrderClause(allowed, "created_at"))
}

func TestBuildPagination(t *testing.T) {
	pg := BuildPaginationFromPage(101, 2, 50)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	pg = BuildPaginationFromPage(0, 1, 50)
	assert.Equal(t, 1, pg.TotalPages)
	assert.False(t, pg.HasNext)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "belajar-go-dasar", Slugify("  Belajar   Go: Dasar!! ", 0))
	assert.Equal(t, "cafe-creme", Slugify("Café Crème", 0))
	assert.Equal(t, "item", Slugify("***", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 4))
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23514"}))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uq" (SQLSTATE 23505)`)))
	assert.True(t, IsCheckViolation(&pq.Error{Code: "23514"}))
	assert.False(t, IsUniqueViolation(nil))
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestFromFiberErrorAndUserID(t *testing.T) {
	app := fiber.New()
	uid := uuid.New()
	app.Get("/fe", func(c *fiber.Ctx) error {
		return FromFiberError(c, fiber.NewError(fiber.StatusConflict, "bentrok"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return FromFiberError(c, errors.New("koneksi putus"))
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals(LocUserID, uid.String())
		id, err := GetUserIDFromToken(c)
		if err != nil {
			return FromFiberError(c, err)
		}
		return JsonOK(c, "", id)
	})
	app.Get("/anon", func(c *fiber.Ctx) error {
		_, err := GetUserIDFromToken(c)
		return FromFiberError(c, err)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, "CONFLICT", body["error_code"])
	assert.Equal(t, "bentrok", body["message"])

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, decode(t, resp.Body)["message"], "koneksi")

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, uid.String(), decode(t, resp.Body)["data"])

	resp, err = app.Test(httptest.NewRequest("GET", "/anon", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Title string `json:"title" validate:"required"`
		Items int    `json:"items" validate:"min=1"`
	}
	v := validator.New()
	verr := v.Struct(&payload{})
	require.Error(t, verr)

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error { return ValidationError(c, verr) })

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decode(t, resp.Body)
	errs := body["errors"].(map[string]any)
	assert.Equal(t, []any{"required"}, errs["title"])
	assert.Equal(t, []any{"min=1"}, errs["items"])
}
