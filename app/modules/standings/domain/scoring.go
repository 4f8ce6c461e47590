package standingsdomain

import (
	"fmt"
	"math"
)

// PolicyName names a scoring policy in configuration.
type PolicyName string

const (
	// PolicyLinear maps a real-valued table point x to 2x - 5.
	PolicyLinear PolicyName = "linear"
	// PolicyFixedTable maps a finishing place 1..4 through a fixed table.
	PolicyFixedTable PolicyName = "fixed_table"
)

// ScoringPolicy converts a raw per-seat table value into a placement point.
//
// Implementations are pure and total: out-of-domain input never fails, it maps
// to the policy's default. SQLExpr renders the same mapping as a SQL expression
// over a column so pre-aggregated feeds sum the exact same values.
type ScoringPolicy interface {
	Name() PolicyName
	PlacePoint(tablePoint float64) float64
	// Placement returns the finishing category 1 (first) .. 4 (fourth), or 0
	// when the raw value does not denote a place.
	Placement(tablePoint float64) int
	SQLExpr(column string) string
}

// NewScoringPolicy resolves a policy by name. An empty name selects the fixed table.
func NewScoringPolicy(name string) (ScoringPolicy, error) {
	switch PolicyName(name) {
	case PolicyFixedTable, "":
		return FixedTablePolicy{}, nil
	case PolicyLinear:
		return LinearPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown scoring policy %q", name)
	}
}

// LinearPolicy assumes the table point is already a real-valued score
// (e.g. 1.5 for two players sharing 3rd and 4th).
type LinearPolicy struct{}

func (LinearPolicy) Name() PolicyName { return PolicyLinear }

func (LinearPolicy) PlacePoint(tablePoint float64) float64 {
	return tablePoint*2 - 5
}

// Placement treats a shared place as the better of the places it spans, so
// 3.5 is first and 1.5 is third.
func (LinearPolicy) Placement(tablePoint float64) int {
	if math.IsNaN(tablePoint) || tablePoint < 1 || tablePoint > 4 {
		return 0
	}
	return 5 - int(math.Ceil(tablePoint))
}

func (LinearPolicy) SQLExpr(column string) string {
	return fmt.Sprintf("(%s * 2 - 5)", column)
}

// FixedTablePolicy interprets the table point as the finishing place, where 4
// is first and 1 is fourth.
type FixedTablePolicy struct{}

var fixedPlacePoints = map[float64]float64{
	4: 3,
	3: 1,
	2: -1,
	1: -3,
}

func (FixedTablePolicy) Name() PolicyName { return PolicyFixedTable }

func (FixedTablePolicy) PlacePoint(tablePoint float64) float64 {
	return fixedPlacePoints[tablePoint]
}

func (FixedTablePolicy) Placement(tablePoint float64) int {
	if _, ok := fixedPlacePoints[tablePoint]; !ok {
		return 0
	}
	return 5 - int(tablePoint)
}

func (FixedTablePolicy) SQLExpr(column string) string {
	return fmt.Sprintf("(CASE %[1]s WHEN 4 THEN 3 WHEN 3 THEN 1 WHEN 2 THEN -1 WHEN 1 THEN -3 ELSE 0 END)", column)
}
