package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TranscriptFetcher retrieves video transcripts through a transcript API.
type TranscriptFetcher struct {
	client   *http.Client
	endpoint string
}

// NewTranscriptFetcher creates a transcript fetcher against endpoint.
func NewTranscriptFetcher(endpoint string, timeout time.Duration) *TranscriptFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &TranscriptFetcher{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

// Fetch retrieves the transcript for a video URL. A 429 response surfaces as
// *RateLimitError so the caller can suppress the generic failure notice.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoURL string) (string, error) {
	if f.endpoint == "" {
		return "", fmt.Errorf("transcript endpoint not configured")
	}

	u := f.endpoint + "?url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building transcript request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching transcript for %s: %w", videoURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{
			Source:     videoURL,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching transcript for %s: unexpected status %d", videoURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading transcript response: %w", err)
	}

	var parsed transcriptResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing transcript response: %w", err)
	}
	return parsed.Transcript, nil
}
