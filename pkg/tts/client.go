// Package tts is a thin HTTP client for the external XTTS synthesis service.
// The model itself is an opaque collaborator: given text, a reference voice
// and a language code it returns a WAV waveform.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	apiGenerateSpeech = "/v1/generate/speech"
	apiHealth         = "/health"
)

var (
	ErrTextEmpty     = errors.New("text cannot be empty")
	ErrEmptyAudio    = errors.New("received empty audio data")
	ErrServiceUnwell = errors.New("tts service unhealthy")
)

// Request is the synthesis payload. SpeakerRefPath is a server-side path to
// the uploaded reference voice used for cloning.
type Request struct {
	Text           string `json:"text"`
	SpeakerRefPath string `json:"speaker_ref_path,omitempty"`
	Language       string `json:"language"`
}

type errorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

type Client struct {
	httpClient *http.Client
	getBaseURL func() string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithGetter(func() string { return baseURL }, timeout)
}

// NewClientWithGetter builds a client whose base URL is resolved per call,
// so runtime settings updates take effect without reconstruction.
func NewClientWithGetter(getBaseURL func() string, timeout time.Duration) *Client {
	return &Client{
		getBaseURL: getBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateSpeech synthesizes req and returns the raw WAV bytes.
func (c *Client) GenerateSpeech(ctx context.Context, req Request) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrTextEmpty
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.getBaseURL()+apiGenerateSpeech, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/wav")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Detail != "" {
			return nil, fmt.Errorf("tts service error (%s): %s", resp.Status, errResp.Detail)
		}
		return nil, fmt.Errorf("tts service returned %s: %s", resp.Status, string(respBody))
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "audio/") {
		return nil, fmt.Errorf("unexpected content type %q from tts service", ct)
	}
	if len(respBody) == 0 {
		return nil, ErrEmptyAudio
	}
	return respBody, nil
}

// HealthCheck verifies the synthesis service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.getBaseURL()+apiHealth, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnwell, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %s", ErrServiceUnwell, resp.Status)
	}
	return nil
}
