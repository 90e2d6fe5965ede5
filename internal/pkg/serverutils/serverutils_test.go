package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	StatusCode int             `json:"status_code"`
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestErrorHandler_MapsKinds(t *testing.T) {
	app := newTestApp()
	app.Get("/notfound", func(c *fiber.Ctx) error { return apperror.NotFound("User not found") })
	app.Get("/conflict", func(c *fiber.Ctx) error { return apperror.Conflict("User already exists") })
	app.Get("/internal", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperror.Validation(map[string]string{"email": "Enter a valid email address."})
	})

	status, env := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/notfound", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", env.Message)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)

	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, status)

	status, env = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", env.Message)

	status, env = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/validation", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Error occured", env.Message)
	assert.JSONEq(t, `{"email":"Enter a valid email address."}`, string(env.Data))
}

func TestErrorHandler_AppErrorWinsOverWrappedFiberError(t *testing.T) {
	app := newTestApp()
	app.Post("/wrapped", func(c *fiber.Ctx) error {
		return apperror.Wrap(apperror.KindBadRequest, "Invalid request body", fiber.ErrUnprocessableEntity)
	})
	app.Post("/bare", func(c *fiber.Ctx) error { return fiber.ErrUnprocessableEntity })

	status, env := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/wrapped", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", env.Message)

	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodPost, "/bare", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newTestApp()
	status, env := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestJwtMiddleware(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Minute, time.Hour, token.NewMemoryBlacklist())
	userId := uuid.New()
	pair, err := tokens.IssuePair(userId.String())
	require.NoError(t, err)

	app := newTestApp()
	app.Get("/me", NewJwtMiddleware(tokens), func(c *fiber.Ctx) error {
		id, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(SuccessResponse("ok", id.String()))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	status, env := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"`+userId.String()+`"`, string(env.Data))

	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	status, _ = doRequest(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRespond(t *testing.T) {
	app := newTestApp()
	app.Post("/created", func(c *fiber.Ctx) error {
		return Respond(c, fiber.StatusCreated, "User is successfully created", map[string]string{"id": "1"})
	})

	status, env := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/created", nil))
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.JSONEq(t, `{"id":"1"}`, string(env.Data))
}
