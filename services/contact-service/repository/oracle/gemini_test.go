package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/intent"
)

type fakeGenerator struct {
	reply  string
	err    error
	model  string
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: f.reply}}},
		}},
	}, nil
}

func TestGeminiOracle_WithoutKeyIsUnavailable(t *testing.T) {
	o, err := NewGeminiOracle(context.Background(), "", "", logger.NoOpLogger())
	require.NoError(t, err)

	assert.False(t, o.Available())
	_, err = o.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, intent.ErrOracleUnavailable)
}

func TestGeminiOracle_Generate(t *testing.T) {
	gen := &fakeGenerator{reply: "  {\"intent\":\"help\"}\n"}
	o := newGeminiOracleWith(gen, "gemini-test", logger.NoOpLogger())

	require.True(t, o.Available())
	text, err := o.Generate(context.Background(), "classify this")
	require.NoError(t, err)

	assert.Equal(t, `{"intent":"help"}`, text)
	assert.Equal(t, "gemini-test", gen.model)
	assert.Equal(t, "classify this", gen.prompt)
}

func TestGeminiOracle_Errors(t *testing.T) {
	failing := newGeminiOracleWith(&fakeGenerator{err: errors.New("quota exceeded")}, DefaultGeminiModel, logger.NoOpLogger())
	_, err := failing.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "quota exceeded")

	blank := newGeminiOracleWith(&fakeGenerator{reply: "   "}, DefaultGeminiModel, logger.NoOpLogger())
	_, err = blank.Generate(context.Background(), "x")
	assert.Error(t, err)
}

func TestGeminiOracle_DrivesResolver(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"intent\":\"search\",\"action\":\"Search users\",\"data\":{\"search_term\":\"Roe\"}}\n```"}
	resolver := intent.NewResolver(intent.NewParser(), newGeminiOracleWith(gen, DefaultGeminiModel, logger.NoOpLogger()), logger.NoOpLogger())

	resolved := resolver.Resolve(context.Background(), "anyone called roe around?")

	assert.Equal(t, model.IntentSearch, resolved.Intent)
	assert.Equal(t, "Roe", resolved.Data.SearchTerm.Value)
	assert.Contains(t, gen.prompt, "anyone called roe around?")
}
