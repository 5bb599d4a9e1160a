package notes_test

import (
	"context"
	"log"
	"net/mail"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/notes"
	docgensvc "github.com/zuritech/elimu/services/docgen"
	emailsvc "github.com/zuritech/elimu/services/email"
	logsvc "github.com/zuritech/elimu/services/logger"
	testutil "github.com/zuritech/elimu/tests"
)

const sampleMarkdown = `# Algebra

## Overview
Algebra manipulates symbols standing for numbers.

## Key Concepts
- Variables represent unknown values.
- Equations state that two expressions are equal.

## Summary
Solve for the unknown.`

var (
	conf *core.Config
	gen  = &testutil.TextGeneratorStub{}
	svc  notes.ServiceInterface
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Elimu",
		WorkDir:          core.Getwd(),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Elimu", Address: "noreply@test.local"},
	}

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)
	core.ParseEmailTemplates(conf, logger)

	svc = notes.NewService(gen, docgensvc.NewExporter(), emailsvc.NewConsoleServiceMock(conf), conf)

	os.Exit(m.Run())
}

func Test_service_Generate(t *testing.T) {
	gen.Response = "\n" + sampleMarkdown + "\n\n"
	gen.Err = nil

	pack, err := svc.Generate(context.Background(), notes.GenerateRequest{Topic: "Algebra"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if pack.Topic != "Algebra" {
		t.Errorf("topic = %q", pack.Topic)
	}
	if pack.Markdown != sampleMarkdown {
		t.Errorf("markdown not trimmed: %q", pack.Markdown)
	}
	if !strings.Contains(pack.HTML, "<h1>Algebra</h1>") ||
		!strings.Contains(pack.HTML, "<h2>Key Concepts</h2>") ||
		!strings.Contains(pack.HTML, "<li>") {
		t.Errorf("HTML rendering: %q", pack.HTML)
	}
	if pack.GeneratedAt.IsZero() {
		t.Error("zero GeneratedAt")
	}
	if !strings.Contains(gen.LastPrompt, `"Algebra"`) {
		t.Errorf("prompt = %q", gen.LastPrompt)
	}

	t.Run("generator error is passed through", func(t *testing.T) {
		gen.Err = core.ErrAIBlocked
		defer func() { gen.Err = nil }()

		if _, err := svc.Generate(context.Background(), notes.GenerateRequest{Topic: "Algebra"}); errors.Cause(err) != core.ErrAIBlocked {
			t.Errorf("Generate() error = %v, want %v", err, core.ErrAIBlocked)
		}
	})
}

func Test_service_Export(t *testing.T) {
	tests := []struct {
		name         string
		topic        string
		format       string
		wantFilename string
		wantCT       string
		wantMagic    string
	}{
		{"pdf", "Algebra Basics", "pdf", "algebra_basics.pdf", "application/pdf", "%PDF"},
		{"docx", "Algebra Basics", "docx", "algebra_basics.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "PK"},
		{"punctuation is flattened", "The Kreb's Cycle!", "pdf", "the_kreb_s_cycle.pdf", "application/pdf", "%PDF"},
		{"unusable topic falls back", "!!!", "pdf", "study_notes.pdf", "application/pdf", "%PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := svc.Export(notes.ExportRequest{Topic: tt.topic, Markdown: sampleMarkdown, Format: tt.format})
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if doc.Filename != tt.wantFilename {
				t.Errorf("filename = %q, want %q", doc.Filename, tt.wantFilename)
			}
			if doc.ContentType != tt.wantCT {
				t.Errorf("content type = %q, want %q", doc.ContentType, tt.wantCT)
			}
			if !strings.HasPrefix(doc.Content.String(), tt.wantMagic) {
				t.Errorf("content does not start with %q", tt.wantMagic)
			}
		})
	}
}

func Test_service_Email(t *testing.T) {
	emailsvc.SentMessages = nil // reset

	err := svc.Email(notes.EmailRequest{
		ExportRequest: notes.ExportRequest{Topic: "Algebra Basics", Markdown: sampleMarkdown, Format: "docx"},
		Email:         "hero@test.cd",
	})
	if err != nil {
		t.Fatalf("Email() error = %v", err)
	}

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("len(SentMessages) = %d, want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if msg.To[0].Address != "hero@test.cd" {
		t.Errorf("To = %v", msg.To[0])
	}
	if !strings.Contains(msg.Subject, "Algebra Basics") {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.TextContent, "Algebra Basics") {
		t.Errorf("text content = %q", msg.TextContent)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("len(attachments) = %d, want 1", len(msg.Attachments))
	}
	at := msg.Attachments[0]
	if at.Filename != "algebra_basics.docx" {
		t.Errorf("attachment filename = %q", at.Filename)
	}
	if at.Content.Len() == 0 {
		t.Error("empty attachment content")
	}
}
