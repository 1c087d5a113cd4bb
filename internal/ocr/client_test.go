package ocr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testFiles() []File {
	return []File{
		{Name: "scan1.jpg", ContentType: "image/jpeg", Data: []byte("jpeg1")},
		{Name: "scan2.pdf", Data: []byte("pdf2")},
	}
}

func TestProcessSendsMultipartBatch(t *testing.T) {
	var gotNames []string
	var gotTypes []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		headers := r.MultipartForm.File["files"]
		for _, fh := range headers {
			gotNames = append(gotNames, fh.Filename)
			gotTypes = append(gotTypes, fh.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"invoice_number":"INV-1","total_amount":100}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, zap.NewNop())
	result, err := client.Process(context.Background(), testFiles())
	require.NoError(t, err)

	assert.Equal(t, []string{"scan1.jpg", "scan2.pdf"}, gotNames)
	assert.Equal(t, []string{"image/jpeg", "application/octet-stream"}, gotTypes)
	assert.Equal(t, "INV-1", result.Payload.Invoice.InvoiceNumber)
	assert.JSONEq(t, `{"invoice_number":"INV-1","total_amount":100}`, string(result.Raw))
}

func TestProcessErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, zap.NewNop())
	_, err := client.Process(context.Background(), testFiles())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestProcessUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, time.Second, zap.NewNop())
	_, err := client.Process(context.Background(), testFiles())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestProcessMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"invoice_number": `))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 5*time.Second, zap.NewNop())
	_, err := client.Process(context.Background(), testFiles())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}
