package contact

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactService "github.com/princekumarofficial/portfolio-service/internal/services/contact"
	"github.com/princekumarofficial/portfolio-service/internal/storage/memdb"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

func TestSubmit(t *testing.T) {
	store, err := memdb.New()
	require.NoError(t, err)
	handler := Submit(contactService.NewService(store, nil))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/contact",
		bytes.NewBufferString(`{"name":"Lucía","email":"lucia@example.com","message":"Hola"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data["id"])

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/contact",
		bytes.NewBufferString(`{"name":"Lucía","email":"not-an-email","message":"Hola"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email: email")
}

func TestSocialLinks(t *testing.T) {
	link, err := types.NewSocialLink("instagram", "https://instagram.com/portfolio")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	SocialLinks([]types.SocialLink{link})(rec, httptest.NewRequest(http.MethodGet, "/social-links", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []types.SocialLink `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Instagram", body.Data[0].Name)

	rec = httptest.NewRecorder()
	SocialLinks(nil)(rec, httptest.NewRequest(http.MethodGet, "/social-links", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Instagram")
}
