package mailer

import (
	"errors"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"
)

type SMTPClient struct {
	dialer    *gomail.Dialer
	fromEmail string
	backoff   time.Duration
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (*SMTPClient, error) {
	if host == "" || fromEmail == "" {
		return nil, errors.New("smtp host and from email are required")
	}

	d := gomail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second

	return &SMTPClient{dialer: d, fromEmail: fromEmail, backoff: time.Second}, nil
}

func (c *SMTPClient) Send(templateFile, username, email string, data any) error {
	subject, body, err := Render(templateFile, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", c.fromEmail, FromName)
	m.SetAddressHeader("To", email, username)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	var sendErr error
	for i := 0; i < maxRetries; i++ {
		sendErr = c.dialer.DialAndSend(m)
		if sendErr == nil {
			return nil
		}
		// linear backoff
		time.Sleep(c.backoff * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, sendErr)
}
