package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<p>Hi <b>{{.Name}}</b>, your Budget account has been created.</p>
<p>Visit the following link:</p>
<a href="{{.FrontendURL}}/auth/confirm-account">Confirm Account</a>
<p>Your confirmation code is: <b>{{.Token}}</b></p>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<p>Hi <b>{{.Name}}</b>, you requested to reset your Budget password.</p>
<p>Visit the following link:</p>
<a href="{{.FrontendURL}}/auth/reset-password">Reset Password</a>
<p>Your confirmation code is: <b>{{.Token}}</b></p>
`))

// SMTPMailer sends auth emails over SMTP.
type SMTPMailer struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	frontendURL string
}

// NewSMTP creates an SMTPMailer.
func NewSMTP(host string, port int, username, password, from, frontendURL string) *SMTPMailer {
	return &SMTPMailer{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		frontendURL: frontendURL,
	}
}

// SendConfirmation emails the account-confirmation code.
func (m *SMTPMailer) SendConfirmation(data EmailData) error {
	return m.send(data, "Confirm your email", confirmationTmpl)
}

// SendPasswordReset emails the password-reset code.
func (m *SMTPMailer) SendPasswordReset(data EmailData) error {
	return m.send(data, "Reset Password", resetTmpl)
}

func (m *SMTPMailer) send(data EmailData, subject string, tmpl *template.Template) error {
	var body bytes.Buffer
	err := tmpl.Execute(&body, struct {
		EmailData
		FrontendURL string
	}{EmailData: data, FrontendURL: m.frontendURL})
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(data.Email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	opts := []mail.Option{mail.WithPort(m.port)}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}
