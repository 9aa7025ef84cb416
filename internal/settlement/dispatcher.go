package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	stripeclient "github.com/Moyo-Made/social-shake-backend/pkg/stripe"
)

const errNoDestination = "No payable destination"

// DestinationResolver looks up a winner's payable connected account.
// A nil result means the creator has no account or payouts are disabled.
type DestinationResolver interface {
	ResolveDestination(ctx context.Context, userID uuid.UUID) (*string, error)
}

// TransferClient issues a single balance transfer to a connected account.
type TransferClient interface {
	CreateTransfer(ctx context.Context, params stripeclient.TransferParams) (*stripeclient.TransferResult, error)
}

// Dispatch issues one transfer per winner, in ranking order, and records
// each outcome independently. A winner with no destination or a rejected
// transfer is marked failed and the loop continues; a sibling's failure
// never blocks or rolls back another winner's payout. A zero prize amount
// completes without a transfer. The idempotency key is derived from
// (contest, user, position) so a retried call cannot double-pay at the
// Stripe layer.
func Dispatch(ctx context.Context, contestID uuid.UUID, winners []Winner, currency string, destinations DestinationResolver, transfers TransferClient) DispatchSummary {
	summary := DispatchSummary{Outcomes: make([]TransferOutcome, 0, len(winners))}
	for _, winner := range winners {
		outcome := dispatchOne(ctx, contestID, winner, currency, destinations, transfers)
		if outcome.Status == enums.WinnerPayoutStatusCompleted {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}
	return summary
}

func dispatchOne(ctx context.Context, contestID uuid.UUID, winner Winner, currency string, destinations DestinationResolver, transfers TransferClient) TransferOutcome {
	outcome := TransferOutcome{
		UserID:   winner.UserID,
		Position: winner.Position,
		Amount:   winner.PrizeAmount,
	}

	// An under-configured prize table allocates 0 to trailing positions.
	// Nothing is owed, so no transfer is attempted and the winner is not
	// recorded as a failure.
	if !winner.PrizeAmount.IsPositive() {
		outcome.Status = enums.WinnerPayoutStatusCompleted
		return outcome
	}

	destination, err := destinations.ResolveDestination(ctx, winner.UserID)
	if err != nil {
		return failOutcome(outcome, err.Error())
	}
	if destination == nil || *destination == "" {
		return failOutcome(outcome, errNoDestination)
	}
	outcome.DestinationAccountID = destination

	result, err := transfers.CreateTransfer(ctx, stripeclient.TransferParams{
		AmountCents:    winner.PrizeAmount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:       currency,
		Destination:    *destination,
		IdempotencyKey: transferIdempotencyKey(contestID, winner.UserID, winner.Position),
		Metadata: map[string]string{
			"contest_id": contestID.String(),
			"user_id":    winner.UserID.String(),
			"position":   fmt.Sprintf("%d", winner.Position),
		},
	})
	if err != nil {
		return failOutcome(outcome, err.Error())
	}

	outcome.Status = enums.WinnerPayoutStatusCompleted
	outcome.TransferID = &result.ID
	return outcome
}

func failOutcome(outcome TransferOutcome, message string) TransferOutcome {
	outcome.Status = enums.WinnerPayoutStatusFailed
	outcome.ErrorMessage = &message
	return outcome
}

func transferIdempotencyKey(contestID, userID uuid.UUID, position int) string {
	return fmt.Sprintf("settle-%s-%s-%d", contestID, userID, position)
}
