package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"silent-sos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid input", fmt.Errorf("%w: invalid id %q", models.ErrInvalidInput, "x"), http.StatusBadRequest, `invalid input: invalid id "x"`},
		{"alert not found", fmt.Errorf("acknowledge 9: %w", models.ErrAlertNotFound), http.StatusNotFound, "acknowledge 9: alert not found"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "failed to acknowledge alert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "failed to acknowledge alert")

			assert.Equal(t, tt.status, rec.Code)
			var env Result[any]
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, ResultError, env.Code)
			assert.Equal(t, "error", env.Type)
			assert.Equal(t, tt.message, env.Message)
			assert.Nil(t, env.Result)
		})
	}
}

func TestWriteOk(t *testing.T) {
	rec := httptest.NewRecorder()
	writeOk(rec, map[string]int{"total": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":2000,"type":"success","message":"ok","result":{"total":3}}`, rec.Body.String())
}
