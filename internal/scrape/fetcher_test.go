package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/config"
	pkgerrors "github.com/Autocity-R/autocity-sales-hub-sub004/pkg/errors"
)

func testScraperConfig(retries int) config.ScraperConfig {
	return config.ScraperConfig{
		FetchTimeout: 5 * time.Second,
		FetchRetries: retries,
		UserAgent:    "AutocityBot/test",
	}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AutocityBot/test", r.Header.Get("User-Agent"))
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewPageFetcher(testScraperConfig(0))
	body, status, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "<html>ok</html>", body)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f := NewPageFetcher(testScraperConfig(3))
	body, status, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "recovered", body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewPageFetcher(testScraperConfig(3))
	_, status, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, pkgerrors.CodeFetch, pkgerrors.As(err).Code())
}

func TestFetchExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewPageFetcher(testScraperConfig(1))
	_, status, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, pkgerrors.CodeFetch, pkgerrors.As(err).Code())
}
