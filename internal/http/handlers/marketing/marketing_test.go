package marketing

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketingService "github.com/princekumarofficial/portfolio-service/internal/services/marketing"
	"github.com/princekumarofficial/portfolio-service/internal/services/media/mediatest"
	"github.com/princekumarofficial/portfolio-service/internal/storage/memdb"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

func TestMarketingRoutes(t *testing.T) {
	store, err := memdb.New()
	require.NoError(t, err)
	svc := marketingService.NewService(store, mediatest.New(), nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /marketing", List(svc))
	mux.HandleFunc("POST /marketing", Create(svc))
	mux.HandleFunc("PATCH /marketing/{id}", Update(svc))
	mux.HandleFunc("DELETE /marketing/{id}", Delete(svc))

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, target, bytes.NewBufferString(body)))
		return rec
	}

	rec := serve(http.MethodPost, "/marketing", `{"title":"Flyer","image_url":"http://objects.test/portfolio-media/marketing/a.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data types.MarketingItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 0, created.Data.OrderIndex)

	rec = serve(http.MethodPost, "/marketing", `{"title":"No image"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(http.MethodPatch, "/marketing/1", `{"order_index":4}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(http.MethodGet, "/marketing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Data []types.MarketingItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, 4, listed.Data[0].OrderIndex)

	assert.Equal(t, http.StatusOK, serve(http.MethodDelete, "/marketing/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodDelete, "/marketing/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodDelete, "/marketing/x", "").Code)
}
