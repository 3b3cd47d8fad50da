package ipresolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePublicIP_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip":"203.0.113.42"}`))
	}))
	defer server.Close()

	resolver := New(server.URL, time.Second)
	ip, err := resolver.ResolvePublicIP(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "203.0.113.42", ip)
}

func TestResolvePublicIP_PlainTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("203.0.113.42\n"))
	}))
	defer server.Close()

	resolver := New(server.URL, time.Second)
	ip, err := resolver.ResolvePublicIP(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "203.0.113.42", ip)
}

func TestResolvePublicIP_GarbageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an address</html>"))
	}))
	defer server.Close()

	resolver := New(server.URL, time.Second)
	_, err := resolver.ResolvePublicIP(context.Background())

	assert.Error(t, err)
}

func TestResolvePublicIP_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resolver := New(server.URL, time.Second)
	_, err := resolver.ResolvePublicIP(context.Background())

	assert.Error(t, err)
}

func TestResolvePublicIP_EmptyAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ip":""}`))
	}))
	defer server.Close()

	resolver := New(server.URL, time.Second)
	_, err := resolver.ResolvePublicIP(context.Background())

	assert.Error(t, err)
}

func TestResolvePublicIP_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ip":"203.0.113.42"}`))
	}))
	defer server.Close()

	resolver := New(server.URL, 50*time.Millisecond)
	_, err := resolver.ResolvePublicIP(context.Background())

	assert.Error(t, err)
}
