package mailer

import (
	"bytes"
	"embed"
	"html/template"
)

const (
	FromName                   = "CityGuide"
	maxRetries                 = 3
	SubmissionReviewedTemplate = "submission_reviewed.tmpl"
	UpdateReviewedTemplate     = "update_reviewed.tmpl"
	ReviewRepliedTemplate      = "review_replied.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) error
}

// Render executes the "subject" and "body" blocks of an embedded template.
func Render(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	s := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(s, "subject", data); err != nil {
		return "", "", err
	}

	b := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(b, "body", data); err != nil {
		return "", "", err
	}

	return s.String(), b.String(), nil
}
