// Package oracle adapts language-model backends to the intent oracle capability
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/intent"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// contentGenerator is the slice of genai.Models the oracle needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOracle asks a Gemini model to classify chat messages
type GeminiOracle struct {
	models contentGenerator
	model  string
	logger logger.LoggerInterface
}

// NewGeminiOracle creates a Gemini-backed oracle. An empty API key yields an
// oracle that reports itself unavailable instead of an error.
func NewGeminiOracle(ctx context.Context, apiKey, model string, appLogger logger.LoggerInterface) (*GeminiOracle, error) {
	if appLogger == nil {
		appLogger = logger.NoOpLogger()
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if apiKey == "" {
		appLogger.Warn("Gemini API key not set, language-model intent resolution disabled")
		return &GeminiOracle{model: model, logger: appLogger}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiOracle{models: client.Models, model: model, logger: appLogger}, nil
}

func newGeminiOracleWith(models contentGenerator, model string, appLogger logger.LoggerInterface) *GeminiOracle {
	return &GeminiOracle{models: models, model: model, logger: appLogger}
}

// Available reports whether a client was configured
func (o *GeminiOracle) Available() bool {
	return o != nil && o.models != nil
}

// Generate sends prompt and returns the model's text reply
func (o *GeminiOracle) Generate(ctx context.Context, prompt string) (string, error) {
	if !o.Available() {
		return "", intent.ErrOracleUnavailable
	}

	resp, err := o.models.GenerateContent(ctx, o.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini generate: empty response")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini generate: no text in response")
	}
	o.logger.DebugContext(ctx, "Gemini reply received", "model", o.model, "length", len(text))
	return text, nil
}
