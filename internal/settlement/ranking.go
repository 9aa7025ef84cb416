package settlement

import (
	"sort"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// Rank resolves each participant's metric, orders them descending, assigns
// 1-based positions, and truncates to winnerCount. The sort is stable:
// ties keep input order, and input order is application creation time
// ascending, so the earlier entrant wins the tie. An empty input yields an
// empty result, which callers treat as "no winners" rather than an error.
func Rank(participants []Participant, criterion enums.RankingCriterion, winnerCount int) []RankedParticipant {
	if len(participants) == 0 || winnerCount <= 0 {
		return nil
	}

	ranked := make([]RankedParticipant, 0, len(participants))
	for _, p := range participants {
		ranked = append(ranked, RankedParticipant{
			Participant: p,
			MetricValue: ResolveMetric(p.Profile, criterion),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MetricValue > ranked[j].MetricValue
	})

	if winnerCount < len(ranked) {
		ranked = ranked[:winnerCount]
	}
	for i := range ranked {
		ranked[i].Position = i + 1
	}
	return ranked
}
