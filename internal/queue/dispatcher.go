package queue

import (
	"context"
	"time"

	"interview-backend/internal/notify"
)

// Dispatcher implements notify.Dispatcher by enqueueing invitations for the
// notification worker instead of sending them inline.
type Dispatcher struct {
	Client Client
}

// SendStageInvitation enqueues the invitation.
func (d *Dispatcher) SendStageInvitation(ctx context.Context, inv notify.Invitation) error {
	return d.Client.Send(ctx, Message{
		Invitation: inv,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	})
}

var _ notify.Dispatcher = (*Dispatcher)(nil)
