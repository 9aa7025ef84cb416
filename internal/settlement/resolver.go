package settlement

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
)

// Creator metrics documents arrive in several vintages. The same criterion
// can live under a top-level metrics block, a nested profile wrapper, or a
// precomputed average field. ResolveMetric walks the candidate paths in
// priority order and returns the first finite number, defaulting to 0 so
// ranking stays total-ordered. It never fails: a malformed profile ranks
// last instead of being dropped.
func ResolveMetric(profile map[string]any, criterion enums.RankingCriterion) float64 {
	if profile == nil {
		return 0
	}
	for _, path := range metricPaths(criterion) {
		if value, ok := lookupPath(profile, path); ok {
			return value
		}
	}
	return 0
}

func metricPaths(criterion enums.RankingCriterion) [][]string {
	name := criterion.String()
	return [][]string{
		{"tiktokMetrics", name},
		{"creatorProfileData", "tiktokMetrics", name},
		{"tiktokData", "tiktokAverage" + titleCase(name)},
	}
}

func lookupPath(root map[string]any, path []string) (float64, bool) {
	current := any(root)
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return 0, false
		}
		current, ok = node[key]
		if !ok {
			return 0, false
		}
	}
	return asFiniteNumber(current)
}

func asFiniteNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
