package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
	"github.com/iWorld-y/company_compass/app/compass/pkg/serpapi"
)

func TestLookupDirectory_Query(t *testing.T) {
	s := &fakeSearcher{}
	e := newTestEngine(nil, s, newFakeGenerator(), fakePDF{})

	e.LookupDirectory(context.Background(), "Acme Corp", "Chile")

	require.Len(t, s.queries, 1)
	assert.Equal(t, "Directorio ejecutivo Acme Corp Chile CEO CFO gerente general sitio web LinkedIn", s.queries[0])
}

func TestLookupDirectory_Format(t *testing.T) {
	var results []search.Result
	for i := 1; i <= 8; i++ {
		results = append(results, search.Result{
			Title:   fmt.Sprintf("Resultado %d", i),
			Snippet: "snippet",
			URL:     fmt.Sprintf("https://example.com/%d", i),
		})
	}
	s := &fakeSearcher{fn: func(*search.Request) (*search.Response, error) {
		return &search.Response{
			People: []search.Person{
				{Name: "Ana Pérez", Role: "CEO", Link: "https://g.co/ana"},
				{Name: "", Role: "", Link: "https://g.co/x"},
			},
			Results: results,
		}, nil
	}}
	e := newTestEngine(nil, s, newFakeGenerator(), fakePDF{})

	text := e.LookupDirectory(context.Background(), "Acme Corp", "Chile")

	assert.Contains(t, text, "Personas identificadas en Google:\n- Ana Pérez — CEO (https://g.co/ana)")
	assert.Contains(t, text, "- Sin nombre — Cargo no especificado (https://g.co/x)")
	assert.Contains(t, text, "Resultados relevantes:\n- Resultado 1: snippet (https://example.com/1)")
	assert.Contains(t, text, "Resultado 5")
	assert.NotContains(t, text, "Resultado 6")
}

func TestLookupDirectory_PeopleBounded(t *testing.T) {
	var people []search.Person
	for i := 0; i < 15; i++ {
		people = append(people, search.Person{Name: fmt.Sprintf("Persona %02d", i), Role: "Director"})
	}
	s := &fakeSearcher{fn: func(*search.Request) (*search.Response, error) {
		return &search.Response{People: people}, nil
	}}
	e := newTestEngine(nil, s, newFakeGenerator(), fakePDF{})

	text := e.LookupDirectory(context.Background(), "Acme Corp", "")

	assert.Equal(t, 10, strings.Count(text, "— Director"))
	assert.NotContains(t, text, "Resultados relevantes")
}

func TestLookupDirectory_NoData(t *testing.T) {
	e := newTestEngine(nil, &fakeSearcher{}, newFakeGenerator(), fakePDF{})

	text := e.LookupDirectory(context.Background(), "Acme Corp", "Chile")
	assert.Equal(t, "No se encontraron datos relevantes del directorio.", text)
}

func TestLookupDirectory_EmptyFailureIsNoData(t *testing.T) {
	s := &fakeSearcher{fn: func(*search.Request) (*search.Response, error) {
		return nil, model.NewFailure(model.FailureEmpty, "serpapi search", fmt.Errorf("no results"))
	}}
	e := newTestEngine(nil, s, newFakeGenerator(), fakePDF{})

	text := e.LookupDirectory(context.Background(), "Acme Corp", "Chile")
	assert.Equal(t, "No se encontraron datos relevantes del directorio.", text)
}

func TestLookupDirectory_SerpAPINoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"Google hasn't returned any results for this query."}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	client := serpapi.NewClient(serpapi.Options{APIKey: "k", BaseURL: srv.URL})
	e := NewEngine(cfg, client, newFakeGenerator(), fakePDF{}, nil)

	text := e.LookupDirectory(context.Background(), "Empresa Inexistente", "Chile")
	assert.Equal(t, cfg.Report.NoDataMessage, text)
}

func TestLookupDirectory_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status", model.StatusFailure("serpapi search", 500, "boom"), "(Código 500)"},
		{"decode", model.NewFailure(model.FailureDecode, "serpapi search", fmt.Errorf("bad json")), "(decode)"},
		{"plain", fmt.Errorf("dial tcp: refused"), "(transport)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSearcher{fn: func(*search.Request) (*search.Response, error) { return nil, tt.err }}
			e := newTestEngine(nil, s, newFakeGenerator(), fakePDF{})

			text := e.LookupDirectory(context.Background(), "Acme Corp", "Chile")
			assert.Contains(t, text, "No fue posible obtener información del directorio")
			assert.Contains(t, text, tt.want)
		})
	}
}
