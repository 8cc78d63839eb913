package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "valomarket/pkg/errors"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorRendersAppError(t *testing.T) {
	c, rec := newContext()

	err := fmt.Errorf("purchase: %w", apperrors.InsufficientBalance(900, 50))
	require.NoError(t, Error(c, err))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, apperrors.CodeInsufficientBalance, body.Error.Code)
}

func TestErrorRendersValidationErrors(t *testing.T) {
	c, rec := newContext()

	type input struct {
		Amount int64 `validate:"gte=50"`
	}
	err := validator.New().Struct(input{Amount: 10})
	require.Error(t, err)

	require.NoError(t, Error(c, err))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apperrors.CodeValidation, body.Error.Code)
	assert.Equal(t, "amount must be at least 50", body.Error.Message)
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Error(c, fmt.Errorf("connection string leaked")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apperrors.CodeInternal, body.Error.Code)
	assert.NotContains(t, rec.Body.String(), "leaked")
}

func TestPaginated(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Paginated(c, []string{"a", "b"}, 21, 2, 10))

	body := decode(t, rec)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["totalPages"])
	assert.Equal(t, float64(21), data["total"])
}
