package notify

import "grocery-deal-finder/models"

// Notifier delivers the new deals of one run to a channel (chat, inbox).
type Notifier interface {
	Send(deals []*models.Deal) error
}
