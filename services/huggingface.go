package services

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

	"fashionapi/looks"

	"golang.org/x/time/rate"
)

const defaultHuggingFaceURL = "https://api-inference.huggingface.co/models"

// HuggingFaceImageClient calls the hosted inference API for text-to-image models.
type HuggingFaceImageClient struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewHuggingFaceImageClient is rate limited to one request every 2 seconds with a burst of 3.
// An empty baseURL uses the public inference endpoint.
func NewHuggingFaceImageClient(baseURL, token string) *HuggingFaceImageClient {
	if baseURL == "" {
		baseURL = defaultHuggingFaceURL
	}
	return &HuggingFaceImageClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Every(2*time.Second), 3),
	}
}

func (c *HuggingFaceImageClient) Available() bool {
	return c != nil && c.token != ""
}

type hfErrorBody struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (c *HuggingFaceImageClient) GenerateImage(ctx context.Context, model string, prompt string) (*looks.Image, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"negative_prompt": "blurry, distorted, extra limbs, text, watermark",
		},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		var hfErr hfErrorBody
		if json.Unmarshal(body, &hfErr) == nil && hfErr.EstimatedTime > 0 {
			return nil, &looks.WarmingUpError{
				Model: model,
				Wait:  time.Duration(hfErr.EstimatedTime * float64(time.Second)),
			}
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("huggingface %s returned %d: %s", model, resp.StatusCode, truncate(string(body), 200))
	}

	mime := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		return nil, errors.New("huggingface returned a non image response: " + mime)
	}
	return &looks.Image{Data: body, MIMEType: mime}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
