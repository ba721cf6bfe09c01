// Package notify delivers in-app notifications and emails to platform users.
// Delivery is best-effort everywhere: a failed notification must never fail
// the operation that triggered it.
package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
)

// Notification is one in-app notification to a user.
type Notification struct {
	Title    string
	Message  string
	Type     string
	Metadata map[string]any
}

// Notifier persists notifications for later retrieval by the user.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}

// EmailSender sends an HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// PGNotifier stores notifications in the notifications table.
type PGNotifier struct {
	db *sql.DB
}

// NewPGNotifier creates a Postgres-backed Notifier.
func NewPGNotifier(db *sql.DB) *PGNotifier {
	return &PGNotifier{db: db}
}

// Notify inserts a notification row.
func (p *PGNotifier) Notify(ctx context.Context, userID string, n Notification) error {
	var metadata []byte
	if n.Metadata != nil {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("marshal notification metadata: %w", err)
		}
	}

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, type, metadata)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, n.Title, n.Message, n.Type, metadata,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// Dispatcher fans a single event out to the notification store and,
// optionally, email. Every method is best-effort: failures are logged and
// swallowed so state transitions never block on a downstream channel.
type Dispatcher struct {
	notifier Notifier
	email    EmailSender
}

// NewDispatcher creates a Dispatcher. Either collaborator may be nil, in
// which case that channel is skipped.
func NewDispatcher(notifier Notifier, email EmailSender) *Dispatcher {
	return &Dispatcher{notifier: notifier, email: email}
}

// Notify delivers an in-app notification, logging any failure.
func (d *Dispatcher) Notify(ctx context.Context, userID string, n Notification) {
	if d == nil || d.notifier == nil || userID == "" {
		return
	}
	if err := d.notifier.Notify(ctx, userID, n); err != nil {
		log.Printf("notify user %s: %v", userID, err)
	}
}

// Email sends an email, logging any failure.
func (d *Dispatcher) Email(ctx context.Context, to, subject, html string) {
	if d == nil || d.email == nil || to == "" {
		return
	}
	if err := d.email.Send(ctx, to, subject, html); err != nil {
		log.Printf("send email to %s: %v", to, err)
	}
}
