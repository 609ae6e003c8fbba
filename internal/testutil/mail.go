package testutil

import (
	"context"
	"sync"

	"github.com/dalemusser/neuronest/internal/app/system/mailer"
)

// FakeMailer records sent emails instead of delivering them.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []mailer.Email
	// Err, when set, is returned by Send and nothing is recorded.
	Err error
}

// Send implements mailer.Sender.
func (m *FakeMailer) Send(_ context.Context, e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

// Last returns the most recently sent email.
func (m *FakeMailer) Last() (mailer.Email, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return mailer.Email{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
