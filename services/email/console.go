package emailsvc

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
)

// SentMessages records every message the console service delivered.
// Tests inspect it; reset it between cases.
var (
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

// consoleService "delivers" emails by dumping the rendered MIME message to
// the log. It stands in for a real provider in debug and test runs.
type consoleService struct {
	from          mail.Address
	subjPrefix    string
	disableOutput bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		from:       conf.DefaultFromEmail,
		subjPrefix: "[" + conf.AppName + "] ",
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if err := msg.Render(); err != nil {
		log.Printf("%+v", errors.Wrap(err, "rendering email"))
		return
	}
	if !msg.HasRecipients() || (!msg.HasContent() && !msg.HasAttachments()) {
		return
	}

	if !svc.disableOutput {
		log.Println(svc.dump(*msg))
	}
	mu.Lock()
	SentMessages = append(SentMessages, *msg)
	mu.Unlock()
}

func (svc consoleService) dump(msg core.EmailMessage) string {
	body := new(strings.Builder)

	fmt.Fprintf(body, "From: %s\r\n", svc.from.String())
	fmt.Fprint(body, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	fmt.Fprintf(body, "CC: %s\r\n", joinAddresses(msg.Cc))
	fmt.Fprintf(body, "BCC: %s\r\n", joinAddresses(msg.Bcc))

	altW := multipart.NewWriter(body)
	defer altW.Close()

	var mixedW *multipart.Writer
	if msg.HasAttachments() {
		mixedW = multipart.NewWriter(body)
		defer mixedW.Close()
		fmt.Fprintf(body, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixedW.Boundary())
		_, _ = mixedW.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"multipart/alternative", "boundary=" + altW.Boundary()},
		})
	} else {
		fmt.Fprintf(body, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", altW.Boundary())
	}

	if w, err := altW.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain"}}); err == nil {
		fmt.Fprintf(w, "%s\r\n", msg.TextContent)
	}
	if msg.TemplateName != "" {
		if w, err := altW.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html"}}); err == nil {
			fmt.Fprintf(w, "%s\r\n", msg.HTMLContent)
		}
	}

	for _, at := range msg.Attachments {
		w, err := mixedW.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {at.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {"attachment; filename=" + at.Filename},
		})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\r\n", at.Content.String())
	}

	return body.String()
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, a := range addrs {
		strs = append(strs, a.String())
	}
	return strings.Join(strs, ", ")
}

// consoleServiceMock delivers synchronously so tests can inspect
// SentMessages right after the call.
type consoleServiceMock struct {
	consoleService
}

func NewConsoleServiceMock(conf *core.Config) core.EmailService {
	return &consoleServiceMock{consoleService{
		from:          conf.DefaultFromEmail,
		subjPrefix:    "[" + conf.AppName + "] ",
		disableOutput: true,
	}}
}

func (svc *consoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.sendMessage(msg)
	}
}
