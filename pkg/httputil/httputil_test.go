package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consulate/pkg/domain-errors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]int{"pending": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body["pending"])
}

func TestWriteErrorDomainCodes(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeDuplicatePending, http.StatusConflict},
		{dErrors.CodeNotAuthorized, http.StatusForbidden},
		{dErrors.CodeBadRequest, http.StatusBadRequest},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, dErrors.New(tc.code, "boom"))

			assert.Equal(t, tc.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tc.code), body["error"])
			assert.Equal(t, "boom", body["error_description"])
		})
	}
}

func TestWriteErrorUnknownErrorFallsBackToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("plain failure"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(dErrors.CodeInternal), body["error"])
	assert.NotContains(t, body, "error_description")
}
