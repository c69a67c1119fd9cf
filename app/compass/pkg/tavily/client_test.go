package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req SearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme Corp Chile mercantil", req.Query)
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, 5, req.MaxResults)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"q","results":[{"title":"Acme","url":"https://www.mercantil.com/acme","content":"Ficha","score":0.9}]}`))
	}))
	defer server.Close()

	c := NewClient("test-key").WithBaseURL(server.URL)
	resp, err := c.Search(context.Background(), &search.Request{Query: "Acme Corp Chile mercantil"})
	require.NoError(t, err)
	assert.Empty(t, resp.People)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, search.Result{Title: "Acme", URL: "https://www.mercantil.com/acme", Snippet: "Ficha"}, resp.Results[0])
}

func TestClient_Search_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	_, err := NewClient("k").WithBaseURL(server.URL).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Equal(t, model.FailureStatus, model.KindOf(err))
	assert.Contains(t, err.Error(), "429")
}
