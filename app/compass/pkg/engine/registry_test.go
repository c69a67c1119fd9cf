package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

func TestMatchJurisdiction(t *testing.T) {
	js := testConfig().Report.Jurisdictions

	for _, c := range []string{"Chile", " CHILE ", "cl", "Cl"} {
		j, ok := MatchJurisdiction(js, c)
		assert.True(t, ok, c)
		assert.Equal(t, "mercantil.com", j.Domain)
	}
	for _, c := range []string{"", "   ", "Peru", "Chilean"} {
		_, ok := MatchJurisdiction(js, c)
		assert.False(t, ok, c)
	}
}

func TestHostMatches(t *testing.T) {
	tests := []struct {
		link, domain string
		want         bool
	}{
		{"https://www.mercantil.com/empresa/1", "mercantil.com", true},
		{"https://mercantil.com", "mercantil.com", true},
		{"http://MERCANTIL.COM/x", "mercantil.com", true},
		{"https://notmercantil.com/x", "mercantil.com", false},
		{"https://google.com/?q=mercantil.com", "mercantil.com", false},
		{"mercantil.com/empresa", "mercantil.com", false},
		{"https://cl.linkedin.com/in/ana", "linkedin.com", true},
		{"https://www.mercantil.com", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HostMatches(tt.link, tt.domain), tt.link)
	}
}

func TestLookupRegistryLink(t *testing.T) {
	var got *search.Request
	s := &fakeSearcher{fn: func(req *search.Request) (*search.Response, error) {
		got = req
		return &search.Response{Results: []search.Result{
			{URL: "https://www.emol.com/acme"},
			{URL: "https://www.mercantil.com/empresa/acme"},
			{URL: "https://www.mercantil.com/empresa/otra"},
		}}, nil
	}}
	e := newTestEngine(nil, s, newFakeGenerator(), fakePDF{})

	link := e.LookupRegistryLink(context.Background(), "Acme Corp", "chile")

	assert.Equal(t, "https://www.mercantil.com/empresa/acme", link)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Corp Chile mercantil", got.Query)
	assert.Equal(t, "cl", got.Country)
}

func TestLookupRegistryLink_NoMatchOrFailure(t *testing.T) {
	noMatch := &fakeSearcher{fn: func(*search.Request) (*search.Response, error) {
		return &search.Response{Results: []search.Result{{URL: "https://www.emol.com/acme"}}}, nil
	}}
	e := newTestEngine(nil, noMatch, newFakeGenerator(), fakePDF{})
	assert.Empty(t, e.LookupRegistryLink(context.Background(), "Acme Corp", "Chile"))

	failing := &fakeSearcher{fn: func(*search.Request) (*search.Response, error) {
		return nil, model.NewFailure(model.FailureTransport, "fake", errors.New("down"))
	}}
	e = newTestEngine(nil, failing, newFakeGenerator(), fakePDF{})
	assert.Empty(t, e.LookupRegistryLink(context.Background(), "Acme Corp", "Chile"))
}

func TestLookupRegistryLink_ConfiguredJurisdiction(t *testing.T) {
	cfg := testConfig()
	cfg.Report.Jurisdictions = append(cfg.Report.Jurisdictions, config.JurisdictionConfig{
		Label:     "Registro Perú",
		Countries: []string{"peru", "perú", "pe"},
		Keyword:   "RUC",
		Domain:    "universidadperu.com",
	})
	s := &fakeSearcher{fn: func(*search.Request) (*search.Response, error) {
		return &search.Response{Results: []search.Result{{URL: "https://www.universidadperu.com/empresas/acme.php"}}}, nil
	}}
	e := newTestEngine(cfg, s, newFakeGenerator(), fakePDF{})

	link, label := e.lookupRegistry(context.Background(), "Acme Corp", "Perú")
	assert.Equal(t, "https://www.universidadperu.com/empresas/acme.php", link)
	assert.Equal(t, "Registro Perú", label)
}
