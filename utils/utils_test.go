package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ronda-app/apperrors"
)

func TestFormatCurrencyARS(t *testing.T) {
	cases := map[string]string{
		"0":        "$ 0,00",
		"50":       "$ 50,00",
		"15000.5":  "$ 15.000,50",
		"1234567":  "$ 1.234.567,00",
		"-2500.25": "-$ 2.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrencyARS(decimal.RequireFromString(in)), in)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ConfigureJWT("test-secret", 1)

	token, err := GenerateToken(7, "MOZO")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "MOZO", claims.Role)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	BlacklistToken(token, time.Now().Add(time.Hour))
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestRespondAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitLogger()

	cases := []struct {
		err     error
		code    int
		kind    string
		message string
	}{
		{apperrors.Conflict("table 5 is grouped"), http.StatusConflict, "conflict", "table 5 is grouped"},
		{apperrors.InvalidReference("product 9 does not exist"), http.StatusUnprocessableEntity, "invalid_reference", "product 9 does not exist"},
		{errors.New("driver: bad connection"), http.StatusInternalServerError, "internal", "internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondAppError(c, tc.err)

		assert.Equal(t, tc.code, w.Code)
		var resp JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Status)
		assert.Equal(t, tc.kind, resp.Error)
		assert.Equal(t, tc.message, resp.Message)
	}
}
