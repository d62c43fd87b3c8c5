package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autocrm/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyNewLead(ctx context.Context, event *service.LeadEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendAssignmentEmail(ctx context.Context, event *service.LeadEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func newLeadHandler(notifier *mockNotifier, mailer *mockMailer) *LeadHandler {
	return &LeadHandler{
		verifyPushAuth: false,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		notifier:       notifier,
		mailer:         mailer,
	}
}

func pushRequest(t *testing.T, event *service.LeadEvent) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var pushMsg PubSubMessage
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(payload)
	pushMsg.Message.MessageID = "msg-1"
	body, err := json.Marshal(pushMsg)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestHandlePush_NotifiesChannelAndAssignee(t *testing.T) {
	t.Parallel()

	event := &service.LeadEvent{
		CustomerID:    uuid.NewString(),
		Name:          "Nguyễn Thị Mai",
		Phone:         "0912345678",
		CreatorName:   "Trần Văn Hòa",
		AssigneeName:  "Lê Minh Tuấn",
		AssigneeEmail: "tuan@example.com",
	}

	notifier := new(mockNotifier)
	notifier.On("NotifyNewLead", mock.Anything, mock.Anything).Return(nil)
	mailer := new(mockMailer)
	mailer.On("SendAssignmentEmail", mock.Anything, mock.Anything).Return(nil)

	h := newLeadHandler(notifier, mailer)
	c, rec := pushRequest(t, event)

	require.NoError(t, h.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	notifier.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestHandlePush_NoAssigneeSkipsMail(t *testing.T) {
	t.Parallel()

	event := &service.LeadEvent{
		CustomerID:  uuid.NewString(),
		Name:        "Nguyễn Thị Mai",
		CreatorName: "Trần Văn Hòa",
	}

	notifier := new(mockNotifier)
	notifier.On("NotifyNewLead", mock.Anything, mock.Anything).Return(nil)
	mailer := new(mockMailer)

	h := newLeadHandler(notifier, mailer)
	c, rec := pushRequest(t, event)

	require.NoError(t, h.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	mailer.AssertNotCalled(t, "SendAssignmentEmail", mock.Anything, mock.Anything)
}

func TestHandlePush_NotifierFailureTriggersRetry(t *testing.T) {
	t.Parallel()

	event := &service.LeadEvent{
		CustomerID:  uuid.NewString(),
		Name:        "Nguyễn Thị Mai",
		CreatorName: "Trần Văn Hòa",
	}

	notifier := new(mockNotifier)
	notifier.On("NotifyNewLead", mock.Anything, mock.Anything).Return(assert.AnError)

	h := newLeadHandler(notifier, new(mockMailer))
	c, rec := pushRequest(t, event)

	require.NoError(t, h.HandlePush(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePush_MailFailureStillAcks(t *testing.T) {
	t.Parallel()

	event := &service.LeadEvent{
		CustomerID:    uuid.NewString(),
		Name:          "Nguyễn Thị Mai",
		CreatorName:   "Trần Văn Hòa",
		AssigneeEmail: "tuan@example.com",
	}

	notifier := new(mockNotifier)
	notifier.On("NotifyNewLead", mock.Anything, mock.Anything).Return(nil)
	mailer := new(mockMailer)
	mailer.On("SendAssignmentEmail", mock.Anything, mock.Anything).Return(assert.AnError)

	h := newLeadHandler(notifier, mailer)
	c, rec := pushRequest(t, event)

	require.NoError(t, h.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_MalformedCustomerIDAcksWithoutRetry(t *testing.T) {
	t.Parallel()

	event := &service.LeadEvent{
		CustomerID:  "not-a-uuid",
		Name:        "Nguyễn Thị Mai",
		CreatorName: "Trần Văn Hòa",
	}

	notifier := new(mockNotifier)

	h := newLeadHandler(notifier, new(mockMailer))
	c, rec := pushRequest(t, event)

	require.NoError(t, h.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	notifier.AssertNotCalled(t, "NotifyNewLead", mock.Anything, mock.Anything)
}

func TestHandlePush_BadBase64(t *testing.T) {
	t.Parallel()

	var pushMsg PubSubMessage
	pushMsg.Message.Data = "%%% not base64 %%%"
	body, err := json.Marshal(pushMsg)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newLeadHandler(new(mockNotifier), new(mockMailer))
	require.NoError(t, h.HandlePush(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
