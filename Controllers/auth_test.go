package Controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Aegis/Models"
	"Aegis/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	controller := NewAuthController(db)
	app.Post("/api/register", controller.Register)
	app.Post("/api/login", controller.Login)
	app.Get("/api/user", middleware.Verify(db), controller.Me)
	return app
}

func postJSON(t *testing.T, app *fiber.App, url, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRegisterLoginAndMe(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	resp := postJSON(t, app, "/api/register",
		`{"name":"Sara","email":"sara@example.com","password":"secret1","role":"HOD"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/login",
		`{"email":"sara@example.com","password":"secret1"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var jwtCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "jwt" {
			jwtCookie = cookie
		}
	}
	require.NotNil(t, jwtCookie, "login should set the jwt cookie")

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(jwtCookie)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, meResp.StatusCode)

	var user Models.User
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&user))
	assert.Equal(t, Models.RoleHOD, user.Role)
	assert.Equal(t, "sara@example.com", user.Email)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	resp := postJSON(t, app, "/api/register",
		`{"name":"Bob","email":"bob@example.com","password":"secret1","role":"Overlord"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	body := `{"name":"Sara","email":"sara@example.com","password":"secret1","role":"Quality"}`
	resp := postJSON(t, app, "/api/register", body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/register", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	postJSON(t, app, "/api/register",
		`{"name":"Sara","email":"sara@example.com","password":"secret1","role":"PDC"}`)

	resp := postJSON(t, app, "/api/login",
		`{"email":"sara@example.com","password":"wrong"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMeWithoutCookie(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/user", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
