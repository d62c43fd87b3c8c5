// Package notification implements outbound announcements for new leads:
// a Discord-compatible webhook card and an assignment email relay.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"autocrm/config"
	"autocrm/internal/domain/service"

	"github.com/pkg/errors"
)

// discordNotifier posts new-lead cards to a Discord webhook.
type discordNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLeadNotifier creates the team-channel notifier. With no webhook
// configured it degrades to a logger-only notifier.
func NewLeadNotifier(cfg *config.Config, logger *slog.Logger) service.LeadNotifier {
	url := ""
	if cfg.LeadNotify != nil {
		url = cfg.LeadNotify.WebhookURL
	}

	return &discordNotifier{
		webhookURL: url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type webhookEmbed struct {
	Title  string              `json:"title"`
	Color  int                 `json:"color"`
	Fields []webhookEmbedField `json:"fields"`
	Footer struct {
		Text string `json:"text"`
	} `json:"footer"`
	Timestamp string `json:"timestamp"`
}

type webhookEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookPayload struct {
	Username string         `json:"username"`
	Embeds   []webhookEmbed `json:"embeds"`
}

// NotifyNewLead posts a new-lead card to the sales team channel.
func (n *discordNotifier) NotifyNewLead(ctx context.Context, event *service.LeadEvent) error {
	if n.webhookURL == "" {
		n.logger.Debug("lead webhook not configured, skipping",
			slog.String("customer_id", event.CustomerID),
		)

		return nil
	}

	embed := webhookEmbed{
		Title: "🚗 Khách hàng mới: " + event.Name,
		Color: 0x2ecc71,
		Fields: []webhookEmbedField{
			{Name: "Số điện thoại", Value: orDash(event.Phone), Inline: true},
			{Name: "Quan tâm", Value: orDash(event.Interest), Inline: true},
			{Name: "Khu vực", Value: orDash(event.Location), Inline: true},
			{Name: "Nguồn", Value: orDash(event.Source), Inline: true},
			{Name: "Người tạo", Value: orDash(event.CreatorName), Inline: true},
			{Name: "NV phụ trách", Value: orDash(event.AssigneeName), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	embed.Footer.Text = "AutoCRM"
	if event.Notes != "" {
		embed.Fields = append(embed.Fields, webhookEmbedField{Name: "Ghi chú", Value: event.Notes})
	}

	body, err := json.Marshal(webhookPayload{Username: "AutoCRM", Embeds: []webhookEmbed{embed}})
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("lead webhook returned non-success status: %d", resp.StatusCode)
	}

	n.logger.Info("lead webhook delivered",
		slog.String("customer_id", event.CustomerID),
	)

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}

	return s
}
