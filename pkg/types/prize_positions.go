package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PrizePosition describes the prize for one winning position. A contest
// configures either absolute amounts or percentages of the total budget,
// never a mix.
type PrizePosition struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// PrizePositions is the ordered prize table stored as jsonb; index 0 is
// position 1.
type PrizePositions []PrizePosition

// Value implements driver.Valuer.
func (p PrizePositions) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *PrizePositions) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported prize positions type %T", value)
	}
}

// UsesPercentages reports whether any configured position is percentage based.
func (p PrizePositions) UsesPercentages() bool {
	for _, pos := range p {
		if pos.Percentage != nil {
			return true
		}
	}
	return false
}
