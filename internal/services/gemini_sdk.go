package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// sdkGenerator uses the Gemini Go SDK.
type sdkGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newSDKGenerator(ctx context.Context, apiKey, modelName string, temperature float32) (*sdkGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	if temperature > 0 {
		model.SetTemperature(temperature)
	}
	model.SetTopP(0.95)

	return &sdkGenerator{client: client, model: model}, nil
}

func (g *sdkGenerator) Close() error {
	return g.client.Close()
}

func (g *sdkGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{StatusCode: sdkStatus(err), Err: err}
	}

	text := extractText(resp)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// sdkStatus recovers the HTTP status carried by an SDK error.
func sdkStatus(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code > 0 {
		return gerr.Code
	}
	var aerr *apierror.APIError
	if errors.As(err, &aerr) && aerr.HTTPCode() > 0 {
		return aerr.HTTPCode()
	}
	return transportError(err).StatusCode
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
