// Package ocr talks to the external extraction service. Every file in an
// upload batch goes out in a single multipart request and comes back as one
// raw JSON document, which is then normalized into the draft payload shape.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	stagingdomain "github.com/saralbooks/saralbooks/internal/staging/domain"
	"go.uber.org/zap"
)

var ErrServiceUnavailable = errors.New("ocr_service_unavailable")

// File is one uploaded document to be extracted.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result carries both the untouched service response and the normalized
// draft payload. The raw document is persisted verbatim for later audit.
type Result struct {
	Raw     json.RawMessage
	Payload stagingdomain.Payload
}

type Client interface {
	Process(ctx context.Context, files []File) (Result, error)
}

type httpClient struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewHTTPClient(url string, timeout time.Duration, log *zap.Logger) Client {
	return &httpClient{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
		log:    log.Named("ocr.client"),
	}
}

func (c *httpClient) Process(ctx context.Context, files []File) (Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Name))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return Result{}, err
		}
		if _, err := part.Write(f.Data); err != nil {
			return Result{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("extraction service unreachable", zap.String("url", c.url), zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("extraction service returned error status",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(raw)),
		)
		return Result{}, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	payload, err := Normalize(raw)
	if err != nil {
		c.log.Error("extraction response is not valid JSON", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return Result{Raw: raw, Payload: payload}, nil
}
