package creators

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
)

// Service defines creator profile and payment account operations.
type Service interface {
	UpsertProfile(ctx context.Context, userID uuid.UUID, data json.RawMessage) (*models.CreatorProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error)
	ConnectPaymentAccount(ctx context.Context, input ConnectPaymentAccountInput) (*models.CreatorPaymentAccount, error)
	GetPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error)
	SetPayoutsEnabled(ctx context.Context, userID uuid.UUID, enabled bool) error
}

type service struct {
	repo Repository
}

// NewService builds the creators service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "creators repository required")
	}
	return &service{repo: repo}, nil
}

// ConnectPaymentAccountInput links a creator to a Stripe connected account.
// PayoutsEnabled reflects the account's capability at connect time; the
// Stripe account webhook keeps it current afterwards.
type ConnectPaymentAccountInput struct {
	UserID          uuid.UUID
	StripeAccountID string
	PayoutsEnabled  bool
}

func (s *service) UpsertProfile(ctx context.Context, userID uuid.UUID, data json.RawMessage) (*models.CreatorProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(data) > 0 && !json.Valid(data) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile data must be valid JSON")
	}

	profile := &models.CreatorProfile{UserID: userID, Data: data}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert creator profile")
	}
	return profile, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "creator profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load creator profile")
	}
	return profile, nil
}

func (s *service) ConnectPaymentAccount(ctx context.Context, input ConnectPaymentAccountInput) (*models.CreatorPaymentAccount, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !strings.HasPrefix(input.StripeAccountID, "acct_") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stripe account id must start with acct_")
	}

	account := &models.CreatorPaymentAccount{
		UserID:          input.UserID,
		StripeAccountID: input.StripeAccountID,
		PayoutsEnabled:  input.PayoutsEnabled,
	}
	if err := s.repo.UpsertPaymentAccount(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "connect payment account")
	}
	return account, nil
}

func (s *service) GetPaymentAccount(ctx context.Context, userID uuid.UUID) (*models.CreatorPaymentAccount, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	account, err := s.repo.FindPaymentAccount(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment account")
	}
	return account, nil
}

func (s *service) SetPayoutsEnabled(ctx context.Context, userID uuid.UUID, enabled bool) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	updated, err := s.repo.SetPayoutsEnabled(ctx, userID, enabled)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payouts flag")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment account not found")
	}
	return nil
}
