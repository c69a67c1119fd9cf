package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

func TestClient_Search_Success(t *testing.T) {
	content, err := os.ReadFile("testdata/directory.json")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "Acme Corp directorio", q.Get("q"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "es", q.Get("hl"))
		assert.Equal(t, "cl", q.Get("gl"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(content)
	}))
	defer server.Close()

	c := NewClient(Options{APIKey: "test-key", BaseURL: server.URL, Language: "es", Country: "cl"})
	resp, err := c.Search(context.Background(), &search.Request{Query: "Acme Corp directorio"})
	require.NoError(t, err)

	require.Len(t, resp.People, 2)
	assert.Equal(t, search.Person{Name: "Jane Roe", Role: "CEO", Link: "https://www.google.com/search?q=Jane+Roe"}, resp.People[0])
	assert.Equal(t, "CFO", resp.People[1].Role, "role falls back to first extension")

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://acme.example/directorio", resp.Results[0].URL)
	assert.Equal(t, "Conozca a nuestro directorio.", resp.Results[0].Snippet)
}

func TestClient_Search_RequestOverridesLocale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		assert.Equal(t, "pe", r.URL.Query().Get("gl"))
		assert.Equal(t, "3", r.URL.Query().Get("num"))
		_, _ = w.Write([]byte(`{"organic_results":[{"title":"a","link":"https://a"},{"title":"b","link":"https://b"},{"title":"c","link":"https://c"},{"title":"d","link":"https://d"}]}`))
	}))
	defer server.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: server.URL, Language: "es", Country: "cl"})
	resp, err := c.Search(context.Background(), &search.Request{Query: "x", Language: "en", Country: "pe", MaxResults: 3})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 3)
}

func TestClient_Search_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   model.FailureKind
	}{
		{name: "non-200", status: http.StatusUnauthorized, body: `{"error":"Invalid API key."}`, want: model.FailureStatus},
		{name: "malformed json", status: http.StatusOK, body: `{"organic_results": [`, want: model.FailureDecode},
		{name: "error field", status: http.StatusOK, body: `{"error":"Google hasn't returned any results for this query."}`, want: model.FailureEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(Options{APIKey: "k", BaseURL: server.URL})
			_, err := c.Search(context.Background(), &search.Request{Query: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.want, model.KindOf(err))
		})
	}
}

func TestClient_Search_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: url})
	_, err := c.Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Equal(t, model.FailureTransport, model.KindOf(err))
}

func TestClient_Search_StatusBodyKeepsValidUTF8(t *testing.T) {
	body := strings.Repeat("é", 300)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: server.URL})
	_, err := c.Search(context.Background(), &search.Request{Query: "Acme"})
	require.Error(t, err)
	assert.Equal(t, model.FailureStatus, model.KindOf(err))
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), strings.Repeat("é", 200))
	assert.NotContains(t, err.Error(), strings.Repeat("é", 201))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ab", truncate("ab", 5))
	assert.Equal(t, "añ", truncate("año", 2))
}
