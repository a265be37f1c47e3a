package httputil

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"a","email":"a@b.co"}`, ""},
		{"malformed", `{"name":`, "invalid request body"},
		{"missing name", `{"email":"a@b.co"}`, "name is required"},
		{"bad email", `{"name":"a","email":"nope"}`, "email must be a valid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var dst sample
			err := DecodeJSON(r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadRequest))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, 404, "Question not found")
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Question not found"}`, w.Body.String())
}

func TestIntQuery(t *testing.T) {
	q := url.Values{"limit": {"15"}, "bad": {"x"}, "neg": {"-3"}}
	assert.Equal(t, 15, IntQuery(q, "limit", 20))
	assert.Equal(t, 20, IntQuery(q, "bad", 20))
	assert.Equal(t, 20, IntQuery(q, "neg", 20))
	assert.Equal(t, 7, IntQuery(q, "missing", 7))
}

func TestListQuery(t *testing.T) {
	q := url.Values{"categories": {"dosage, ,infusion", "abbreviations"}}
	assert.Equal(t, []string{"dosage", "infusion", "abbreviations"}, ListQuery(q, "categories"))
	assert.Nil(t, ListQuery(q, "difficulties"))
}

func TestPathID(t *testing.T) {
	id, ok := PathID(map[string]string{"id": "42"}, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = PathID(map[string]string{"id": "0"}, "id")
	assert.False(t, ok)
	_, ok = PathID(map[string]string{"id": "abc"}, "id")
	assert.False(t, ok)
}
