package notes

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/zuritech/elimu/core"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pdfContentType  = "application/pdf"
)

type (
	// Exporter renders a study pack into a downloadable document.
	Exporter interface {
		RenderDOCX(pack StudyPack) (*bytes.Buffer, error)
		RenderPDF(pack StudyPack) (*bytes.Buffer, error)
	}

	// Document is a rendered export ready to be served or attached.
	Document struct {
		Filename    string
		ContentType string
		Content     *bytes.Buffer
	}

	ServiceInterface interface {
		Generate(ctx context.Context, req GenerateRequest) (StudyPack, error)
		Export(req ExportRequest) (Document, error)
		Email(req EmailRequest) error
	}

	service struct {
		gen      core.TextGenerator
		exporter Exporter
		mailSvc  core.EmailService
		conf     *core.Config
		markdown goldmark.Markdown
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(gen core.TextGenerator, exporter Exporter, mailSvc core.EmailService, conf *core.Config) *service {
	return &service{
		gen:      gen,
		exporter: exporter,
		mailSvc:  mailSvc,
		conf:     conf,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Generate produces a tiered markdown study pack for the topic, plus its HTML rendering.
func (svc *service) Generate(ctx context.Context, req GenerateRequest) (StudyPack, error) {
	md, err := svc.gen.GenerateText(ctx, notesPrompt(req.Topic), core.GenerateOptions{
		Temperature:     0.4,
		MaxOutputTokens: int32(svc.conf.AI.MaxOutputTokens),
	})
	if err != nil {
		return StudyPack{}, errors.Wrap(err, "generating study notes")
	}
	md = strings.TrimSpace(md)

	var buff bytes.Buffer
	if err = svc.markdown.Convert([]byte(md), &buff); err != nil {
		return StudyPack{}, errors.Wrap(err, "rendering study notes HTML")
	}

	return StudyPack{
		Topic:       req.Topic,
		Markdown:    md,
		HTML:        buff.String(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (svc *service) Export(req ExportRequest) (Document, error) {
	pack := StudyPack{Topic: req.Topic, Markdown: req.Markdown}

	var (
		content *bytes.Buffer
		ct      string
		err     error
	)
	switch req.Format {
	case "pdf":
		content, err = svc.exporter.RenderPDF(pack)
		ct = pdfContentType
	default:
		content, err = svc.exporter.RenderDOCX(pack)
		ct = docxContentType
	}
	if err != nil {
		return Document{}, errors.Wrapf(err, "rendering %s export", req.Format)
	}

	return Document{
		Filename:    exportFilename(req.Topic, req.Format),
		ContentType: ct,
		Content:     content,
	}, nil
}

func (svc *service) Email(req EmailRequest) error {
	doc, err := svc.Export(req.ExportRequest)
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Address: req.Email}},
		Subject:      fmt.Sprintf("%s - Your study notes: %s", svc.conf.AppName, req.Topic),
		TemplateName: "study-pack",
		TemplateData: struct{ Topic string }{req.Topic},
	}
	if err = msg.Attach(doc.Content, doc.Filename, doc.ContentType); err != nil {
		return errors.Wrap(err, "attaching study notes")
	}
	svc.mailSvc.SendMessages(msg)
	return nil
}

func exportFilename(topic, format string) string {
	name := strings.ToLower(core.CleanString(topic))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	name = strings.Trim(name, "_")
	if name == "" {
		name = "study_notes"
	}
	return name + "." + format
}

func notesPrompt(topic string) string {
	return fmt.Sprintf(`You are an expert tutor preparing revision material. Create a complete set of study notes
on the topic: %q.

Structure the notes in markdown with the following sections, in this order:
1. '# %s' as the title.
2. '## Overview' with a short introduction to the topic.
3. '## Key Concepts' as a bulleted list of the essential ideas, each briefly explained.
4. '## Practice Questions' containing model questions and answers grouped by marks:
   '### 1-mark questions', '### 2-mark questions', '### 4-mark questions',
   '### 6-mark questions', '### 8-mark questions' and '### 10-mark questions'.
   Provide at least two questions per group, each followed by a model answer whose depth
   matches the marks available.
5. '## Summary' with the key takeaways.

Use only markdown formatting. Do not wrap the output in a code fence.`, topic, topic)
}
