// Package mail delivers the one-time codes issued during registration,
// login and password reset.
package mail

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

// Message is a single outgoing email with an HTML body.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a message or reports why it could not.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

var subjects = map[domain.Purpose]string{
	domain.PurposeRegister:      "Verify your Shelf account",
	domain.PurposeLoginMFA:      "Your Shelf sign-in code",
	domain.PurposePasswordReset: "Reset your Shelf password",
}

var intros = map[domain.Purpose]string{
	domain.PurposeRegister:      "Thanks for signing up. Use this code to verify your email address:",
	domain.PurposeLoginMFA:      "Use this code to finish signing in:",
	domain.PurposePasswordReset: "We received a request to reset your password. Use this code to continue:",
}

// CodeMessage builds the email carrying code for purpose.
func CodeMessage(purpose domain.Purpose, to, name, code string, ttl time.Duration) Message {
	subject, ok := subjects[purpose]
	if !ok {
		subject = "Your Shelf code"
	}

	body := fmt.Sprintf(`<html>
<body style="font-family: sans-serif;">
	<p>Hello %s,</p>
	<p>%s</p>
	<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">%s</p>
	<p>The code expires in %d minutes. If you did not ask for it you can ignore this email.</p>
</body>
</html>`, html.EscapeString(name), intros[purpose], code, int(ttl.Minutes()))

	return Message{To: to, Subject: subject, Body: body}
}
