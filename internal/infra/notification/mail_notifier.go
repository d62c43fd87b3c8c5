package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"autocrm/config"
	"autocrm/internal/domain/service"

	"github.com/pkg/errors"
)

// mailNotifier delivers assignment emails through a simple HTTP mail relay.
type mailNotifier struct {
	endpoint   string
	from       string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewMailer creates the assignment mailer. With no relay configured it
// degrades to a logger-only mailer.
func NewMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	endpoint, from := "", ""
	if cfg.LeadNotify != nil {
		endpoint = cfg.LeadNotify.MailEndpoint
		from = cfg.LeadNotify.MailFrom
	}

	return &mailNotifier{
		endpoint:   endpoint,
		from:       from,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type mailRequest struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// SendAssignmentEmail tells a rep they have been handed a new lead.
func (m *mailNotifier) SendAssignmentEmail(ctx context.Context, event *service.LeadEvent) error {
	if m.endpoint == "" || event.AssigneeEmail == "" {
		m.logger.Debug("assignment mail skipped",
			slog.String("customer_id", event.CustomerID),
			slog.Bool("endpoint_configured", m.endpoint != ""),
		)

		return nil
	}

	payload := mailRequest{
		From:     m.from,
		To:       event.AssigneeEmail,
		Subject:  fmt.Sprintf("Khách hàng mới được giao: %s", event.Name),
		HTMLBody: buildAssignmentBody(event),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("mail relay returned non-success status: %d", resp.StatusCode)
	}

	m.logger.Info("assignment mail delivered",
		slog.String("customer_id", event.CustomerID),
		slog.String("to", event.AssigneeEmail),
	)

	return nil
}

func buildAssignmentBody(event *service.LeadEvent) string {
	row := func(label, value string) string {
		if value == "" {
			return ""
		}

		return fmt.Sprintf("<tr><td><b>%s</b></td><td>%s</td></tr>", label, html.EscapeString(value))
	}

	return fmt.Sprintf(
		`<p>Xin chào %s,</p><p>Bạn vừa được giao một khách hàng mới:</p><table>%s%s%s%s%s</table><p>Vui lòng liên hệ trong hôm nay.</p>`,
		html.EscapeString(event.AssigneeName),
		row("Tên khách", event.Name),
		row("Điện thoại", event.Phone),
		row("Quan tâm", event.Interest),
		row("Khu vực", event.Location),
		row("Ghi chú", event.Notes),
	)
}
