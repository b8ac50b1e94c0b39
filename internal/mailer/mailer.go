// Package mailer delivers the account-confirmation and password-reset
// emails. Delivery is best-effort: a failure is reported to the caller,
// who logs it and keeps the already-committed state transition.
package mailer

import "sync"

// EmailData carries what the auth emails need: who to address and the
// 6-character code they must receive.
type EmailData struct {
	Name  string
	Email string
	Token string
}

// Mailer sends the auth flow notifications.
type Mailer interface {
	SendConfirmation(data EmailData) error
	SendPasswordReset(data EmailData) error
}

// Recorder is a Mailer that captures outgoing mail instead of sending it.
// Tests observe issued confirmation tokens through it.
type Recorder struct {
	mu            sync.Mutex
	Confirmations []EmailData
	Resets        []EmailData
}

// SendConfirmation records a confirmation email.
func (r *Recorder) SendConfirmation(data EmailData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Confirmations = append(r.Confirmations, data)
	return nil
}

// SendPasswordReset records a password-reset email.
func (r *Recorder) SendPasswordReset(data EmailData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Resets = append(r.Resets, data)
	return nil
}

// LastConfirmation returns the most recently recorded confirmation email.
func (r *Recorder) LastConfirmation() (EmailData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Confirmations) == 0 {
		return EmailData{}, false
	}
	return r.Confirmations[len(r.Confirmations)-1], true
}

// LastReset returns the most recently recorded password-reset email.
func (r *Recorder) LastReset() (EmailData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Resets) == 0 {
		return EmailData{}, false
	}
	return r.Resets[len(r.Resets)-1], true
}
