package mail

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogMailer writes messages to the log instead of sending them. It is
// used when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(ctx context.Context, m Message) error {
	l.logger.InfoContext(ctx, "mail not sent, no smtp relay configured",
		slog.String("to", maskEmail(m.To)),
		slog.String("subject", m.Subject),
		slog.String("body", m.Body),
	)
	return nil
}

// Recorder keeps every message in memory. Setting Err makes Send fail.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (r *Recorder) Send(ctx context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, m)
	return nil
}

// SetErr changes the failure returned by Send.
func (r *Recorder) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Err = err
}

// Sent returns a copy of every message delivered so far.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// Last returns the most recent message sent to to.
func (r *Recorder) Last(to string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if strings.EqualFold(r.sent[i].To, to) {
			return r.sent[i], true
		}
	}
	return Message{}, false
}

// maskEmail keeps the first character of the local part.
func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + domain
}
