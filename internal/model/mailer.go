package model

import "context"

// Mail is a single transactional message.
type Mail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers transactional mail.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
