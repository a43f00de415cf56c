package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"checklist/internal/checklist"
	"checklist/internal/models"
)

const defaultTimeout = 30 * time.Second

// Client talks to the checklist backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// Ack is the backend's acknowledgment of a stored submission.
type Ack struct {
	Message  string  `json:"message"`
	Count    int     `json:"count"`
	FilePath *string `json:"filePath"`
	FileName *string `json:"fileName"`
}

// StatusError is a non-success answer from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Code)
	}
	return fmt.Sprintf("server answered %d: %s", e.Code, e.Message)
}

// ErrNotFound is returned by Download for an unknown file name.
var ErrNotFound = errors.New("file not found")

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Submit sends one completed checklist as a multipart form. It makes a
// single attempt.
func (c *Client) Submit(ctx context.Context, sub checklist.Submission) (*Ack, error) {
	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var ack Ack
	if err := c.do(req, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// Questions fetches the published steps of a process.
func (c *Client) Questions(ctx context.Context, process string) ([]checklist.Step, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/questions/"+url.PathEscape(process), nil)
	if err != nil {
		return nil, err
	}

	var steps []checklist.Step
	if err := c.do(req, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// ListResponses fetches every stored record.
func (c *Client) ListResponses(ctx context.Context) ([]models.ResponseRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/responses", nil)
	if err != nil {
		return nil, err
	}

	var records []models.ResponseRecord
	if err := c.do(req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Download copies the named upload into w.
func (c *Client) Download(ctx context.Context, fileName string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download/"+url.PathEscape(fileName), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", fileName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return 0, statusError(resp)
	}
	return io.Copy(w, resp.Body)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}

func encodeSubmission(sub checklist.Submission) (io.Reader, string, error) {
	answers := sub.Answers
	if answers == nil {
		answers = []checklist.Answer{}
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, "", fmt.Errorf("encode answers: %w", err)
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("process", string(sub.Process)); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("responses", string(encoded)); err != nil {
		return nil, "", err
	}

	if sub.FilePath != "" {
		f, err := os.Open(sub.FilePath)
		if err != nil {
			return nil, "", fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()

		part, err := w.CreateFormFile("file", filepath.Base(sub.FilePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("read upload: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
