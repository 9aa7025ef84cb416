package settlement

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	"github.com/Moyo-Made/social-shake-backend/pkg/types"
)

func pct(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func amt(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func rankedOf(n int) []RankedParticipant {
	participants := make([]Participant, 0, n)
	for i := 0; i < n; i++ {
		participants = append(participants, participantWithViews(float64(100-i)))
	}
	return Rank(participants, enums.RankingCriterionViews, n)
}

func TestAllocatePercentageSplit(t *testing.T) {
	ranked := rankedOf(3)
	positions := types.PrizePositions{
		{Percentage: pct(50)},
		{Percentage: pct(30)},
		{Percentage: pct(20)},
	}

	winners := Allocate(ranked, decimal.NewFromInt(1000), positions)
	want := []int64{500, 300, 200}
	for i, winner := range winners {
		if !winner.PrizeAmount.Equal(decimal.NewFromInt(want[i])) {
			t.Fatalf("position %d: expected %d got %s", i+1, want[i], winner.PrizeAmount)
		}
		if winner.Position != i+1 {
			t.Fatalf("expected position %d preserved got %d", i+1, winner.Position)
		}
	}

	total := decimal.Zero
	for _, winner := range winners {
		total = total.Add(winner.PrizeAmount)
	}
	if !total.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected total 1000 got %s", total)
	}
}

func TestAllocateFloorNeverExceedsBudget(t *testing.T) {
	ranked := rankedOf(3)
	third := decimal.NewFromFloat(33.33)
	positions := types.PrizePositions{
		{Percentage: &third},
		{Percentage: &third},
		{Percentage: &third},
	}
	budget := decimal.NewFromInt(100)

	winners := Allocate(ranked, budget, positions)
	total := decimal.Zero
	for _, winner := range winners {
		total = total.Add(winner.PrizeAmount)
	}
	if total.GreaterThan(budget) {
		t.Fatalf("allocated %s exceeds budget %s", total, budget)
	}
}

func TestAllocateAbsoluteAmounts(t *testing.T) {
	ranked := rankedOf(2)
	positions := types.PrizePositions{
		{Amount: amt(750)},
		{Amount: amt(250)},
	}

	winners := Allocate(ranked, decimal.NewFromInt(1000), positions)
	if !winners[0].PrizeAmount.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("expected 750 got %s", winners[0].PrizeAmount)
	}
	if !winners[1].PrizeAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected 250 got %s", winners[1].PrizeAmount)
	}
}

func TestAllocateUnderConfiguredTableYieldsZero(t *testing.T) {
	ranked := rankedOf(3)
	positions := types.PrizePositions{{Amount: amt(500)}}

	winners := Allocate(ranked, decimal.NewFromInt(1000), positions)
	if len(winners) != 3 {
		t.Fatalf("expected 3 winners got %d", len(winners))
	}
	if !winners[1].PrizeAmount.IsZero() || !winners[2].PrizeAmount.IsZero() {
		t.Fatalf("positions beyond the table must get zero, got %s and %s",
			winners[1].PrizeAmount, winners[2].PrizeAmount)
	}
}

func TestAllocateEmptyWinners(t *testing.T) {
	winners := Allocate(nil, decimal.NewFromInt(1000), types.PrizePositions{{Percentage: pct(100)}})
	if len(winners) != 0 {
		t.Fatalf("expected no winners got %d", len(winners))
	}
}
