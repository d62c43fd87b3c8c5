package service

import (
	"context"
)

// LeadEvent is published when a new lead lands, so notification fan-out
// happens off the intake request path.
type LeadEvent struct {
	RequestID     string `json:"request_id,omitempty"` // For distributed tracing
	CustomerID    string `json:"customer_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Interest      string `json:"interest,omitempty"`
	Location      string `json:"location,omitempty"`
	Source        string `json:"source,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatorName   string `json:"creator_name"`
	AssigneeName  string `json:"assignee_name,omitempty"`
	AssigneeEmail string `json:"assignee_email,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishLeadEvent publishes a new-lead event for async processing
	PublishLeadEvent(ctx context.Context, event *LeadEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
