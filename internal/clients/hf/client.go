package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dodotask/dodotask-backend/internal/logger"
)

const (
	defaultBaseURL        = "https://api-inference.huggingface.co"
	defaultSentimentModel = "distilbert-base-uncased-finetuned-sst-2-english"
	defaultTextGenModel   = "google/flan-t5-base"
)

// Sentiment is a normalized sentiment result.
type Sentiment struct {
	Label string
	Score float64
}

// Client is the Hugging Face Inference API client used for mood inference
// and pet chat. The risk scorer never depends on it; it is a pluggable
// text-generation capability.
type Client interface {
	AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error)
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

type client struct {
	log            *logger.Logger
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	sentimentModel string
	textGenModel   string
}

func NewClient(log *logger.Logger, baseURL, apiKey string) Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		log:            log.With("service", "HFClient"),
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		sentimentModel: defaultSentimentModel,
		textGenModel:   defaultTextGenModel,
	}
}

func (c *client) postJSON(ctx context.Context, model string, payload map[string]interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal inference payload: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func (c *client) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	raw, err := c.postJSON(ctx, c.sentimentModel, map[string]interface{}{"inputs": text})
	if err != nil {
		return Sentiment{}, err
	}
	s, ok := decodeSentiment(raw)
	if !ok {
		// Model responded with a shape we don't recognize; neutral beats
		// failing the caller's mood log.
		c.log.Warn("Unrecognized sentiment response shape", "body_len", len(raw))
		return Sentiment{Label: "neutral", Score: 0.5}, nil
	}
	return s, nil
}

// decodeSentiment tolerates the response shapes the inference API is known
// to return: [{label,score}], [[{label,score},...]], or {label,score}.
func decodeSentiment(raw []byte) (Sentiment, bool) {
	var flat []candidate
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 && flat[0].Label != "" {
		return Sentiment{Label: flat[0].Label, Score: flat[0].Score}, true
	}
	var nested [][]candidate
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return Sentiment{Label: nested[0][0].Label, Score: nested[0][0].Score}, true
	}
	var single candidate
	if err := json.Unmarshal(raw, &single); err == nil && single.Label != "" {
		return Sentiment{Label: single.Label, Score: single.Score}, true
	}
	return Sentiment{}, false
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *client) GenerateReply(ctx context.Context, prompt string) (string, error) {
	raw, err := c.postJSON(ctx, c.textGenModel, map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"max_new_tokens": 256,
			"temperature":    0.7,
		},
		"options": map[string]interface{}{"wait_for_model": true},
	})
	if err != nil {
		return "", err
	}
	var list []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0].GeneratedText != "" {
		return list[0].GeneratedText, nil
	}
	var obj struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.GeneratedText != "" {
		return obj.GeneratedText, nil
	}
	return "", fmt.Errorf("no generated text in inference response")
}
