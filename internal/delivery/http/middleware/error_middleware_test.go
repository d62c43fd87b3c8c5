package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "autocrm/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newErrorContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestHandleHTTPError_AppError(t *testing.T) {
	t.Parallel()

	m := NewErrorMiddleware(discardLogger())
	c, rec := newErrorContext()

	m.HandleHTTPError(domainerrors.ErrAccessDenied, c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "ACCESS_DENIED", errInfo["code"])
}

func TestHandleHTTPError_WrappedAppError(t *testing.T) {
	t.Parallel()

	m := NewErrorMiddleware(discardLogger())
	c, rec := newErrorContext()

	m.HandleHTTPError(errors.Wrap(domainerrors.ErrCustomerNotFound, "load customer"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", errInfo["code"])
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	t.Parallel()

	m := NewErrorMiddleware(discardLogger())
	c, rec := newErrorContext()

	m.HandleHTTPError(echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), c)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "HTTP_ERROR", errInfo["code"])
}

func TestHandleHTTPError_UnknownError(t *testing.T) {
	t.Parallel()

	m := NewErrorMiddleware(discardLogger())
	c, rec := newErrorContext()

	m.HandleHTTPError(errors.New("boom"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "INTERNAL_ERROR", errInfo["code"])
}
