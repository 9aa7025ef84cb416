package enums

import "fmt"

// RankingCriterion names the metric used to rank contest participants.
type RankingCriterion string

const (
	RankingCriterionViews    RankingCriterion = "views"
	RankingCriterionLikes    RankingCriterion = "likes"
	RankingCriterionComments RankingCriterion = "comments"
	RankingCriterionShares   RankingCriterion = "shares"
)

var validRankingCriteria = []RankingCriterion{
	RankingCriterionViews,
	RankingCriterionLikes,
	RankingCriterionComments,
	RankingCriterionShares,
}

// String implements fmt.Stringer.
func (r RankingCriterion) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r RankingCriterion) IsValid() bool {
	for _, candidate := range validRankingCriteria {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRankingCriterion converts raw input into a RankingCriterion.
func ParseRankingCriterion(value string) (RankingCriterion, error) {
	for _, candidate := range validRankingCriteria {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ranking criterion %q", value)
}
