package notes

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zuritech/elimu/core"
)

// StudyPack is a generated markdown study package for a topic.
type StudyPack struct {
	Topic       string    `json:"topic"`
	Markdown    string    `json:"content_markdown"`
	HTML        string    `json:"content_html,omitempty"`
	GeneratedAt time.Time `json:"generated_at"` // UTC
}

// GenerateRequest asks for a fresh study pack.
type GenerateRequest struct {
	Topic string `json:"topic" validate:"required,max=255"`
}

func (gr *GenerateRequest) Validate(validate *validator.Validate) error {
	gr.Topic = core.CleanString(gr.Topic)
	return validate.Struct(gr)
}

// ExportRequest renders a previously generated pack into a document.
// The client sends the pack back; no second model call is made.
type ExportRequest struct {
	Topic    string `json:"topic" validate:"required,max=255"`
	Markdown string `json:"content_markdown" validate:"required"`
	Format   string `json:"format" validate:"required,oneof=docx pdf"`
}

func (er *ExportRequest) Validate(validate *validator.Validate) error {
	er.Topic = core.CleanString(er.Topic)
	er.Format = core.CleanString(er.Format, true /* lower */)
	return validate.Struct(er)
}

// EmailRequest exports a pack and mails it as an attachment.
type EmailRequest struct {
	ExportRequest
	Email string `json:"email" validate:"required,email"`
}

func (er *EmailRequest) Validate(validate *validator.Validate) error {
	er.Email = core.CleanString(er.Email, true /* lower */)
	er.Topic = core.CleanString(er.Topic)
	er.Format = core.CleanString(er.Format, true /* lower */)
	return validate.Struct(er)
}
