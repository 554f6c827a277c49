package testutil

import (
	"errors"
	"sync"
	"time"
)

// SentMail is one captured delivery.
type SentMail struct {
	To        string
	Code      string
	ExpiresAt time.Time
}

// RecorderMailer captures confirmation codes instead of sending them, so
// tests can complete the signup flow. Set Fail to simulate an SMTP outage.
type RecorderMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Fail bool
}

func (m *RecorderMailer) SendConfirmationCode(to, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return errors.New("smtp: connection refused")
	}
	m.Sent = append(m.Sent, SentMail{To: to, Code: code, ExpiresAt: expiresAt})
	return nil
}

// LastCode returns the most recently delivered code, or "" when nothing was
// sent.
func (m *RecorderMailer) LastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1].Code
}
