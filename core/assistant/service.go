package assistant

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
)

const systemInstruction = "You are a friendly, concise, and helpful study assistant."

type (
	// Prompt is a single stateless question for the assistant.
	Prompt struct {
		Message string `json:"message" validate:"required,max=4000"`
	}

	// Reply is the assistant's answer.
	Reply struct {
		Reply string `json:"reply"`
	}

	ServiceInterface interface {
		Ask(ctx context.Context, p Prompt) (Reply, error)
	}

	service struct {
		gen core.TextGenerator
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(gen core.TextGenerator) *service {
	return &service{gen: gen}
}

func (p *Prompt) Validate(validate *validator.Validate) error {
	p.Message = core.CleanString(p.Message)
	return validate.Struct(p)
}

// Ask sends a single-turn prompt to the model; no conversation state is kept.
func (svc *service) Ask(ctx context.Context, p Prompt) (Reply, error) {
	text, err := svc.gen.GenerateText(ctx, p.Message, core.GenerateOptions{
		SystemInstruction: systemInstruction,
	})
	if err != nil {
		return Reply{}, errors.Wrap(err, "generating assistant reply")
	}
	return Reply{Reply: core.CleanString(text)}, nil
}
