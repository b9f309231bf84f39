package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

type restPart struct {
	Text string `json:"text"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restGenerationConfig struct {
	Temperature *float32 `json:"temperature,omitempty"`
}

type generateContentRequest struct {
	Contents         []restContent         `json:"contents"`
	GenerationConfig *restGenerationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      *restContent `json:"content"`
		FinishReason string       `json:"finishReason"`
	} `json:"candidates"`
}

// restGenerator calls the generateContent REST endpoint directly, passing the
// API key as the "key" query parameter.
type restGenerator struct {
	baseURL     string
	model       string
	apiKey      string
	temperature float32
	httpClient  *http.Client
}

func newRESTGenerator(baseURL, model, apiKey string, temperature float32, httpClient *http.Client) *restGenerator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &restGenerator{
		baseURL:     baseURL,
		model:       model,
		apiKey:      apiKey,
		temperature: temperature,
		httpClient:  httpClient,
	}
}

func generateContentURL(baseURL, model, apiKey string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultGeminiBaseURL
	}
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s",
		base, url.PathEscape(model), url.Values{"key": {apiKey}}.Encode())
}

func (g *restGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []restContent{{Parts: []restPart{{Text: prompt}}}},
	}
	if g.temperature > 0 {
		t := g.temperature
		reqBody.GenerationConfig = &restGenerationConfig{Temperature: &t}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, generateContentURL(g.baseURL, g.model, g.apiKey), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", &ProviderError{StatusCode: res.StatusCode, Body: string(buf)}
	}

	var payload generateContentResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 4<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	if len(payload.Candidates) == 0 || payload.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var text strings.Builder
	for _, part := range payload.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return text.String(), nil
}
