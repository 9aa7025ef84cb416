package notifications

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/pagination"
)

// EventPublisher pushes a notification event to the realtime fan-out topic.
type EventPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Service defines notification list/read operations plus the internal
// delivery hook other services call.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any)
}

type service struct {
	repo      Repository
	publisher EventPublisher
	logger    *logger.Logger
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

type notificationEvent struct {
	UserID   string         `json:"user_id"`
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewService wires notifications dependencies. The publisher is optional;
// without one, notifications are persisted but not fanned out.
func NewService(repo Repository, publisher EventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, publisher: publisher, logger: logg}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID:     params.UserID,
		Limit:      pagination.LimitWithBuffer(params.Limit),
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	updated, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark all notifications read")
	}
	return updated, nil
}

// Notify persists an in-app notification and publishes the realtime event.
// Best effort on both legs: a delivery failure is logged, never returned,
// so callers like payout settlement cannot be failed by the sink.
func (s *service) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, message string, metadata map[string]any) {
	if userID == uuid.Nil || !kind.IsValid() {
		return
	}

	var rawMetadata json.RawMessage
	if metadata != nil {
		if encoded, err := json.Marshal(metadata); err == nil {
			rawMetadata = encoded
		}
	}

	notification := &models.Notification{
		UserID:   userID,
		Type:     kind,
		Message:  message,
		Metadata: rawMetadata,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error(ctx, "notifications.persist", err)
	}

	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(notificationEvent{
		UserID:   userID.String(),
		Type:     kind.String(),
		Message:  message,
		Metadata: metadata,
	})
	if err != nil {
		s.logger.Error(ctx, "notifications.encode_event", err)
		return
	}
	s.publisher.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"user_id": userID.String(),
			"type":    kind.String(),
		},
	})
}
