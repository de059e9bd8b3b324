package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfstruct/constants"
)

func writeTestDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o600))
	return path
}

func TestClientSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/whisper", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"whisper_hash":"abc123"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	handle, err := c.Submit(context.Background(), writeTestDoc(t))
	require.NoError(t, err)
	assert.Equal(t, "abc123", handle)
}

func TestClientSubmitRejectsMissingHandle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.Submit(context.Background(), writeTestDoc(t))
	assert.ErrorContains(t, err, "whisper_hash")
}

func TestClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/whisper-status", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("whisper_hash"))
		_, _ = w.Write([]byte(`{"status":"failed","message":"bad scan"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	status, msg, err := c.Status(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, status)
	assert.Equal(t, "bad scan", msg)
}

func TestClientStatusMapsUnknownValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"warming-up"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	status, _, err := c.Status(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusUnknown, status)
}

func TestClientRetrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/whisper-retrieve", r.URL.Path)
		_, _ = w.Write([]byte(`{"extraction":{"result_text":"hello world"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	text, err := c.Retrieve(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestClientSurfacesNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)

	_, err := c.Submit(context.Background(), writeTestDoc(t))
	assert.ErrorContains(t, err, "429")

	_, _, err = c.Status(context.Background(), "abc123")
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = c.Retrieve(context.Background(), "abc123")
	assert.Error(t, err)
}
