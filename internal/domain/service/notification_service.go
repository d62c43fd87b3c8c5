package service

import (
	"context"
)

// LeadNotifier defines the interface for team-channel announcements of new leads.
type LeadNotifier interface {
	// NotifyNewLead posts a new-lead card to the sales team channel.
	NotifyNewLead(ctx context.Context, event *LeadEvent) error
}

// Mailer defines the interface for transactional email delivery.
type Mailer interface {
	// SendAssignmentEmail tells a rep they have been handed a new lead.
	SendAssignmentEmail(ctx context.Context, event *LeadEvent) error
}
