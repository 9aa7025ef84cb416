package stripe

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
)

// TransferParams describes one balance transfer to a connected account.
// AmountCents is the minor-unit amount; the caller converts from major
// units before reaching this boundary.
type TransferParams struct {
	AmountCents    int64
	Currency       string
	Destination    string
	IdempotencyKey string
	Metadata       map[string]string
}

// TransferResult is the subset of the Stripe transfer the platform records.
type TransferResult struct {
	ID          string
	Destination string
}

// CreateTransfer moves funds from the platform balance to a connected
// account. The idempotency key makes retries safe at the Stripe layer.
func (c *Client) CreateTransfer(ctx context.Context, params TransferParams) (*TransferResult, error) {
	if c == nil || c.api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe client not initialized")
	}
	if params.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer amount must be positive")
	}
	if params.Destination == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer destination is required")
	}

	req := &stripe.TransferCreateParams{
		Amount:      stripe.Int64(params.AmountCents),
		Currency:    stripe.String(params.Currency),
		Destination: stripe.String(params.Destination),
	}
	for k, v := range params.Metadata {
		req.AddMetadata(k, v)
	}
	if params.IdempotencyKey != "" {
		req.IdempotencyKey = stripe.String(params.IdempotencyKey)
	}

	if c.logger != nil {
		lctx := c.logger.WithFields(ctx, map[string]any{
			"amount_cents": params.AmountCents,
			"destination":  params.Destination,
		})
		c.logger.Info(lctx, "stripe.create_transfer")
	}

	transfer, err := c.api.V1Transfers.Create(ctx, req)
	if err != nil {
		return nil, mapTransferError(err)
	}

	result := &TransferResult{ID: transfer.ID}
	if transfer.Destination != nil {
		result.Destination = transfer.Destination.ID
	}
	return result, nil
}

func mapTransferError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = string(stripeErr.Code)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe transfer failed")
}
