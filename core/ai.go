package core

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrAINotConfigured is returned when no AI API key is set.
	ErrAINotConfigured = errors.New("AI service not configured")
	// ErrAIBlocked is returned when the model refuses or filters the prompt.
	ErrAIBlocked = errors.New("AI response blocked")
	// ErrAIEmptyResponse is returned when the model returns no usable content.
	ErrAIEmptyResponse = errors.New("AI response empty")
)

// GenerateOptions tune a single text-generation call.
type GenerateOptions struct {
	Temperature       float32
	MaxOutputTokens   int32 // 0 -> service default
	JSONOutput        bool  // request an application/json response
	SystemInstruction string
}

// TextGenerator is any service that can turn a prompt into text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// DisabledTextGenerator stands in when no AI API key is set.
type DisabledTextGenerator struct{}

var _ TextGenerator = (*DisabledTextGenerator)(nil)

func (DisabledTextGenerator) GenerateText(context.Context, string, GenerateOptions) (string, error) {
	return "", ErrAINotConfigured
}
