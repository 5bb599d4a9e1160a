package core

import (
	"bytes"
	"encoding/base64"
	"fmt"
	htmltmpl "html/template"
	"io"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	texttmpl "text/template"
)

var (
	emailTemplates map[string]*templatePair // keyed by template name, without ext
	templateConf   *Config
)

type (
	templatePair struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}

	Attachment struct {
		Content     *bytes.Buffer // base64-encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) contextData() ContextData {
	ctxData := ContextData{Data: m.TemplateData}
	if templateConf != nil {
		ctxData.FrontendBaseURL = templateConf.FrontendBaseURL
	}
	return ctxData
}

// Render fills TextContent and HTMLContent from BodyStr or the named
// template pair. Missing templates leave the contents empty.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}

	pair, ok := emailTemplates[m.TemplateName]
	if m.TemplateName == "" || !ok {
		return nil
	}

	var buff bytes.Buffer
	if m.TextContent == "" && pair.text != nil {
		if err := pair.text.Execute(&buff, m.contextData()); err != nil {
			return err
		}
		m.TextContent = buff.String()
	}
	if pair.html != nil {
		buff.Reset()
		if err := pair.html.Execute(&buff, m.contextData()); err != nil {
			return err
		}
		m.HTMLContent = buff.String()
	}
	return nil
}

func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err = encoder.Write(content); err != nil {
		return err
	}
	if err = encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) AttachFile(path string, contentType ...string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Attach(f, filepath.Base(path), contentType...)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// ParseEmailTemplates loads the email template pairs from assets/templates/email.
// Each name yields a .txt and a .gohtml parsed alongside their "_base" layouts.
func ParseEmailTemplates(conf *Config, logger Logger) {
	emailTemplates = make(map[string]*templatePair)
	templateConf = conf

	dir := filepath.Join(conf.WorkDir, "assets", "templates", "email")
	fps, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		logger.Error(fmt.Sprintf("parsing email templates: %v", err), err)
		return
	}

	strict := conf.Debug || conf.TestMode
	for _, fp := range fps {
		fname := filepath.Base(fp)
		ext := filepath.Ext(fname)
		if strings.HasPrefix(fname, "_") {
			continue
		}

		name := strings.TrimSuffix(fname, ext)
		pair, ok := emailTemplates[name]
		if !ok {
			pair = new(templatePair)
			emailTemplates[name] = pair
		}

		switch ext {
		case ".txt":
			tmpl, err := texttmpl.ParseFiles(filepath.Join(dir, "_base.txt"), fp)
			if err != nil {
				logger.Error(fmt.Sprintf("parsing email template %s: %v", fname, err), err)
				continue
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			pair.text = tmpl
		case ".gohtml":
			tmpl, err := htmltmpl.ParseFiles(filepath.Join(dir, "_base.gohtml"), fp)
			if err != nil {
				logger.Error(fmt.Sprintf("parsing email template %s: %v", fname, err), err)
				continue
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			pair.html = tmpl
		}
	}
}
