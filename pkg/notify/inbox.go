package notify

import (
	"context"

	"github.com/fadedpez/friendbet/pkg/entities"
)

// InboxStore persists notifications for later reading
type InboxStore interface {
	AddNotification(ctx context.Context, n *entities.Notification) error
}

// Inbox stores notifications so users can list them
type Inbox struct {
	store InboxStore
}

func NewInbox(store InboxStore) *Inbox {
	return &Inbox{store: store}
}

// Notify implements Notifier
func (i *Inbox) Notify(ctx context.Context, n *entities.Notification) error {
	return i.store.AddNotification(ctx, n)
}
