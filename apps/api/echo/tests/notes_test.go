package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	echoapi "github.com/zuritech/elimu/apps/api/echo"
	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/notes"
	"github.com/zuritech/elimu/core/user"
	emailsvc "github.com/zuritech/elimu/services/email"
	testutil "github.com/zuritech/elimu/tests"
)

const sampleNotesMarkdown = `# Algebra

## Overview
Algebra manipulates symbols standing for numbers.

## Key Concepts
- Variables represent unknown values.
- Equations state that two expressions are equal.

## Summary
Solve for the unknown.`

func Test_notesApi_generate(t *testing.T) {
	resetDB(t)
	defer resetGen()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	body := marchallObj(t, notes.GenerateRequest{Topic: "Algebra"})
	aiFailed := marchallObj(t, httpErr{Error: "AI service failed to produce a valid response"})

	type genSetup struct {
		response string
		err      error
	}
	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: studentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"topic": "this field is required"}),
		},
		{name: "model blocked the prompt", token: studentToken, body: body, wantCode: http.StatusBadGateway, extra: genSetup{err: core.ErrAIBlocked}, wantData: aiFailed},
		{name: "generated", token: studentToken, body: body, wantCode: http.StatusOK, extra: genSetup{response: sampleNotesMarkdown + "\n\n"}},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/notes/generate"

		t.Run(tt.name, func(t *testing.T) {
			resetGen()
			if setup, ok := tt.extra.(genSetup); ok {
				gen.Response = setup.response
				gen.Err = setup.err
			}

			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var pack notes.StudyPack
				if err := json.Unmarshal(rec.Body.Bytes(), &pack); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if pack.Topic != "Algebra" {
					t.Errorf("failed! topic = %q; want %q", pack.Topic, "Algebra")
				}
				if pack.Markdown != sampleNotesMarkdown {
					t.Errorf("failed! markdown not trimmed: %q", pack.Markdown)
				}
				if !strings.Contains(pack.HTML, "<h1>Algebra</h1>") || !strings.Contains(pack.HTML, "<li>") {
					t.Errorf("failed! HTML rendering: %q", pack.HTML)
				}
				if pack.GeneratedAt.IsZero() {
					t.Error("failed! zero GeneratedAt")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_notesApi_export(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	reqMsg := "this field is required"
	export := func(format string) []byte {
		return marchallObj(t, notes.ExportRequest{Topic: "Algebra Basics", Markdown: sampleNotesMarkdown, Format: format})
	}

	type wantDoc struct {
		contentType string
		disposition string
		magic       string
	}
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"topic": reqMsg, "content_markdown": reqMsg, "format": reqMsg}),
		},
		{
			name: "invalid format", body: export("odt"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"format": "format must be one of [docx pdf]"}),
		},
		{
			name: "PDF", body: export("pdf"), wantCode: http.StatusOK,
			extra: wantDoc{
				contentType: "application/pdf",
				disposition: `attachment; filename="algebra_basics.pdf"`,
				magic:       "%PDF",
			},
		},
		{
			name: "DOCX", body: export("docx"), wantCode: http.StatusOK,
			extra: wantDoc{
				contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				disposition: `attachment; filename="algebra_basics.docx"`,
				magic:       "PK",
			},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/notes/export"
		tt.token = studentToken

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if want, ok := tt.extra.(wantDoc); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				if ct := rec.Header().Get("Content-Type"); ct != want.contentType {
					t.Errorf("failed! Content-Type = %q; want %q", ct, want.contentType)
				}
				if cd := rec.Header().Get("Content-Disposition"); cd != want.disposition {
					t.Errorf("failed! Content-Disposition = %q; want %q", cd, want.disposition)
				}
				if body := rec.Body.String(); !strings.HasPrefix(body, want.magic) {
					t.Errorf("failed! body does not start with %q", want.magic)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_notesApi_email(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	body := marchallObj(t, notes.EmailRequest{
		ExportRequest: notes.ExportRequest{Topic: "Algebra Basics", Markdown: sampleNotesMarkdown, Format: "pdf"},
		Email:         "hero@test.cd",
	})

	tests := []httpTest{
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body: marchallObj(t, notes.EmailRequest{
				ExportRequest: notes.ExportRequest{Topic: "Algebra Basics", Markdown: sampleNotesMarkdown, Format: "pdf"},
				Email:         "lol",
			}),
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "sent", body: body, wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Your study notes are on their way to hero@test.cd."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/notes/email"
		tt.token = studentToken

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				if len(emailsvc.SentMessages) != 1 {
					t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
				}
				msg := emailsvc.SentMessages[0]
				if msg.To[0].Address != "hero@test.cd" {
					t.Errorf("failed! To = %v", msg.To[0])
				}
				if len(msg.Attachments) != 1 {
					t.Fatalf("failed! len(attachments) = %d; want 1", len(msg.Attachments))
				}
				at := msg.Attachments[0]
				if at.Filename != "algebra_basics.pdf" || at.ContentType != "application/pdf" {
					t.Errorf("failed! attachment = %q (%s)", at.Filename, at.ContentType)
				}
				if at.Content.Len() == 0 {
					t.Error("failed! empty attachment content")
				}
			}
		})
	}
}
