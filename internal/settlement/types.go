package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// Participant is one approved application joined with the creator's
// metrics document, ready for ranking. SubmittedAt carries the tie-break
// order, so callers must populate participants in application creation
// order ascending.
type Participant struct {
	ApplicationID uuid.UUID
	UserID        uuid.UUID
	SubmittedAt   time.Time
	Profile       map[string]any
}

// RankedParticipant is a participant after metric resolution and ordering.
// Position is 1-based.
type RankedParticipant struct {
	Participant
	MetricValue float64
	Position    int
}

// Winner is a ranked participant with a prize attached. Amounts stay in
// decimal major units until the dispatch boundary.
type Winner struct {
	RankedParticipant
	PrizeAmount decimal.Decimal
}

// TransferOutcome records one winner's transfer attempt.
type TransferOutcome struct {
	UserID               uuid.UUID
	Position             int
	Amount               decimal.Decimal
	DestinationAccountID *string
	Status               enums.WinnerPayoutStatus
	TransferID           *string
	ErrorMessage         *string
}

// DispatchSummary aggregates per-winner outcomes so callers can report
// partial success instead of a binary result.
type DispatchSummary struct {
	Outcomes  []TransferOutcome
	Succeeded int
	Failed    int
}

// ProcessPayoutsInput identifies the contest to settle and the acting
// brand user.
type ProcessPayoutsInput struct {
	ContestID   uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// FinalizeWinnersInput identifies the contest whose winners should be
// computed and persisted without dispatching payouts.
type FinalizeWinnersInput struct {
	ContestID   uuid.UUID
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// FinalizeWinnersResult reports the persisted winner set.
type FinalizeWinnersResult struct {
	ContestID uuid.UUID              `json:"contest_id"`
	Winners   []models.ContestWinner `json:"winners"`
}

// Result summarizes one settlement run for the caller.
type Result struct {
	PayoutID      uuid.UUID             `json:"payout_id"`
	ContestID     uuid.UUID             `json:"contest_id"`
	TotalWinners  int                   `json:"total_winners"`
	Succeeded     int                   `json:"succeeded"`
	Failed        int                   `json:"failed"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	WinnerPayouts []models.WinnerPayout `json:"winner_payouts"`
}
