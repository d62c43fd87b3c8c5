package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"autocrm/config"
	deliverycontext "autocrm/internal/delivery/context"
	"autocrm/internal/domain/constants"
	"autocrm/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// LeadHandler fans a new-lead event out to the team channel and, when the
// lead was handed to a rep, to that rep's mailbox.
type LeadHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	notifier       service.LeadNotifier
	mailer         service.Mailer
}

// LeadHandlerParams holds dependencies for the LeadHandler
type LeadHandlerParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Notifier service.LeadNotifier
	Mailer   service.Mailer
}

// NewLeadHandler creates a new Pub/Sub push handler for lead events
func NewLeadHandler(params LeadHandlerParams) *LeadHandler {
	// Only Google-delivered pushes carry a verifiable OIDC token, and
	// local development skips the check entirely
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &LeadHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		notifier:       params.Notifier,
		mailer:         params.Mailer,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *LeadHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.LeadEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse lead event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing lead event",
		slog.String("customer_id", event.CustomerID),
		slog.String("creator", event.CreatorName),
		slog.String("assignee", event.AssigneeName),
	)

	if err := h.processLead(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process lead event",
			slog.String("customer_id", event.CustomerID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 asks Pub/Sub to redeliver; 200 acknowledges poison
		// messages so they never loop forever
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Lead event processed successfully",
		slog.String("customer_id", event.CustomerID),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *LeadHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.LeadEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processLead fans the event out. The channel announcement is the primary
// effect; a transient failure there is retryable. The assignment email is
// best effort and never fails the message.
func (h *LeadHandler) processLead(ctx context.Context, event *service.LeadEvent) error {
	if event.CustomerID == "" {
		return errors.New("lead event missing customer id")
	}
	if _, err := uuid.Parse(event.CustomerID); err != nil {
		return errors.WithStack(err)
	}

	if err := h.notifier.NotifyNewLead(ctx, event); err != nil {
		return newRetryableError(errors.WithStack(err))
	}

	if event.AssigneeEmail != "" {
		if err := h.mailer.SendAssignmentEmail(ctx, event); err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("[Worker] Failed to send assignment email",
				slog.String("customer_id", event.CustomerID),
				slog.String("assignee_email", event.AssigneeEmail),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience must match this push endpoint's URL
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
