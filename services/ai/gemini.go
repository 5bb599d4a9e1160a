package aisvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/zuritech/elimu/core"
)

const defaultModel = "gemini-2.5-flash"

// GeminiService implements core.TextGenerator against the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  string
	conf   *core.Config
	logger core.Logger
}

var _ core.TextGenerator = (*GeminiService)(nil)

func NewGeminiService(conf *core.Config, logger core.Logger) (*GeminiService, error) {
	if conf.AI.APIKey == "" {
		return nil, core.ErrAINotConfigured
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: conf.AI.APIKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating Gemini client")
	}

	model := conf.AI.Model
	if model == "" {
		model = defaultModel
	}
	return &GeminiService{client: client, model: model, conf: conf, logger: logger}, nil
}

func (svc *GeminiService) GenerateText(ctx context.Context, prompt string, opts core.GenerateOptions) (string, error) {
	if svc.conf.AI.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.conf.AI.Timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}
	if opts.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}

	resp, err := svc.client.Models.GenerateContent(ctx, svc.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", errors.Wrap(err, "calling Gemini")
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		svc.logger.Warn(fmt.Sprintf("Gemini blocked prompt: %s", resp.PromptFeedback.BlockReason))
		return "", errors.Wrapf(core.ErrAIBlocked, "reason: %s", resp.PromptFeedback.BlockReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", core.ErrAIEmptyResponse
	}
	return text, nil
}
