package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

// Service renders templated emails and hands them to a Sender. Templates
// are parsed once at construction from <templateDir>/email/*.html and
// looked up by file name.
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
	templates   *template.Template
}

// NewService parses the email templates and builds the service.
func NewService(sender Sender, fromAddress, fromName, templateDir string) (*Service, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templateDir, "email", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		templates:   tmpl,
	}, nil
}

// SendOrderConfirmation emails the COD order summary to the buyer.
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationEmail) error {
	return s.send(ctx, data.Email, data)
}

// SendWelcome greets a freshly registered account.
func (s *Service) SendWelcome(ctx context.Context, data WelcomeEmail) error {
	return s.send(ctx, data.Email, data)
}

// send renders the template named by tmpl and dispatches HTML plus a derived
// plain-text alternative.
func (s *Service) send(ctx context.Context, to string, tmpl EmailTemplate) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, tmpl.TemplateName(), tmpl); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.TemplateName(), err)
	}
	htmlBody := buf.String()

	msg := &Email{
		To:       []string{to},
		From:     fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress),
		Subject:  tmpl.Subject(),
		HTMLBody: htmlBody,
		TextBody: generatePlainText(htmlBody),
	}

	if _, err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w", tmpl.TemplateName(), err)
	}
	return nil
}

// generatePlainText derives a rough text alternative from the HTML body.
// Good enough for the multipart fallback; not a general HTML converter.
func generatePlainText(html string) string {
	text := html

	for _, br := range []string{"<br>", "<br/>", "<br />"} {
		text = strings.ReplaceAll(text, br, "\n")
	}
	for _, block := range []string{"</p>", "</h1>", "</h2>", "</h3>"} {
		text = strings.ReplaceAll(text, block, "\n\n")
	}
	text = strings.ReplaceAll(text, "</div>", "\n")
	text = strings.ReplaceAll(text, "</tr>", "\n")

	for {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start < 0 || end <= start {
			break
		}
		text = text[:start] + text[end+1:]
	}

	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&middot;", "-",
		"&larr;", "<-",
	)
	text = replacer.Replace(text)

	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
