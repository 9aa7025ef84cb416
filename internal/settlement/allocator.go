package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// Allocate attaches a prize amount to each ranked winner. A prize table
// configures either absolute amounts by position or percentages of the
// total budget. Percentage amounts round down to whole units, so for tables
// summing to at most 100% the allocated total never exceeds the budget;
// any remainder stays unallocated. A position beyond the configured table
// gets amount 0 rather than an error, and ranking order is preserved.
func Allocate(ranked []RankedParticipant, totalBudget decimal.Decimal, positions types.PrizePositions) []Winner {
	winners := make([]Winner, 0, len(ranked))
	usePercentages := positions.UsesPercentages()
	for i, rp := range ranked {
		winners = append(winners, Winner{
			RankedParticipant: rp,
			PrizeAmount:       amountForIndex(positions, i, totalBudget, usePercentages),
		})
	}
	return winners
}

func amountForIndex(positions types.PrizePositions, index int, totalBudget decimal.Decimal, usePercentages bool) decimal.Decimal {
	if index >= len(positions) {
		return decimal.Zero
	}
	spec := positions[index]
	if usePercentages {
		if spec.Percentage == nil {
			return decimal.Zero
		}
		// Truncate to whole major units. Remainders stay with the brand
		// instead of overspending the budget.
		return totalBudget.Mul(*spec.Percentage).Div(oneHundred).Floor()
	}
	if spec.Amount == nil {
		return decimal.Zero
	}
	return *spec.Amount
}
