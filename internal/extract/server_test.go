package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postExtract(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	gen := &stubGenerator{response: `{"date":"2025-06-01","amount":8,"category":"Food","details":"bagel","paidBy":""}`}
	handler := Handler(NewExtractor(gen, "flash-v2", nil), nil)

	rec := postExtract(t, handler, `{"text":"bagel for 8"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bagel"`)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandler_BadRequests(t *testing.T) {
	gen := &stubGenerator{response: `{"date":"2025-06-01","amount":0,"category":"Food","details":"","paidBy":""}`}
	handler := Handler(NewExtractor(gen, "flash-v2", nil), nil)

	t.Run("missing text", func(t *testing.T) {
		rec := postExtract(t, handler, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := postExtract(t, handler, `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no amount in text", func(t *testing.T) {
		rec := postExtract(t, handler, `{"text":"bought something"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/extract", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandler_ModelFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("credentials rejected")}
	handler := Handler(NewExtractor(gen, "flash-v2", nil), nil)

	rec := postExtract(t, handler, `{"text":"coffee for 4"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "credentials", "internal detail not leaked")
}

type ctxCheckGenerator struct{}

func (ctxCheckGenerator) Generate(ctx context.Context, _, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return `{"date":"2025-06-01","amount":1,"category":"Other","details":"x","paidBy":""}`, nil
}

func TestHandler_PropagatesRequestContext(t *testing.T) {
	handler := Handler(NewExtractor(ctxCheckGenerator{}, "flash-v2", nil), nil)
	rec := postExtract(t, handler, `{"text":"one dollar thing"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
