package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"fieldtrack/config"
)

var resetMailTemplate = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #2c3e50; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
    <h1 style="margin: 0;">FieldTrack Admin Panel</h1>
  </div>
  <div style="background: #f9f9f9; padding: 30px; border: 1px solid #ddd; border-top: none; border-radius: 0 0 5px 5px;">
    <h2 style="color: #333;">Password Reset Request</h2>
    <p>Hello <strong>{{.Name}}</strong>,</p>
    <p>You have requested to reset your password for the FieldTrack Admin Panel.</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.Link}}"
         style="background-color: #2c3e50; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">
        Reset Password
      </a>
    </div>
    <p>This link expires in one hour. If you did not request a reset, you can ignore this mail.</p>
  </div>
</div>
`))

// MailService sends transactional mail over SMTP with STARTTLS
type MailService struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

// NewMailService returns a MailService configured from cfg
func NewMailService(cfg config.Config) *MailService {
	return &MailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.MailUsername,
		password: cfg.MailPassword,
		from:     cfg.MailFrom,
		fromName: cfg.MailFromName,
	}
}

// SendPasswordResetEmail mails a reset link to an admin
func (s *MailService) SendPasswordResetEmail(to, name, resetLink string) error {
	var body bytes.Buffer
	err := resetMailTemplate.Execute(&body, map[string]string{
		"Name": name,
		"Link": resetLink,
	})
	if err != nil {
		return err
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.fromName, s.from),
		fmt.Sprintf("To: %s", to),
		"Subject: Password Reset Request - FieldTrack Admin",
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body.String(),
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s:%s", to, s.host, s.port)
	if err := s.send(to, []byte(msg)); err != nil {
		return err
	}
	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *MailService) send(to string, msg []byte) error {
	addr := net.JoinHostPort(s.host, s.port)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline covers the whole SMTP conversation
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer func() { _ = client.Quit() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
