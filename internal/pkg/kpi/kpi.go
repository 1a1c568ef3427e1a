// Package kpi holds the derived KPI formulas and their rounding rules.
//
// Dollar and rate metrics are compared with PercentageChange. Percentage-point
// metrics (billable %, recoverability %) are compared with plain subtraction.
package kpi

import "math"

// RecoverabilityTarget is the fixed recoverability target in percent
const RecoverabilityTarget = 95.0

// nearZero is the magnitude below which a value counts as zero for comparisons
const nearZero = 0.01

// PercentageChange returns the relative change from last to current in percent,
// rounded to one decimal. It is nil when both values are near zero, and ±100
// when only last is near zero.
func PercentageChange(current, last float64) *float64 {
	if math.Abs(last) <= nearZero && math.Abs(current) <= nearZero {
		return nil
	}
	var change float64
	if math.Abs(last) <= nearZero {
		change = -100
		if current > 0 {
			change = 100
		}
	} else {
		change = Round1((current - last) / math.Abs(last) * 100)
	}
	return &change
}

// AvailableHours is standard hours less capacity-reducing hours, never negative
func AvailableHours(standard, capacityReducing float64) float64 {
	return math.Max(0, standard-capacityReducing)
}

// BillablePercentage is billable hours over available hours in percent.
// Returns 0 when no hours are available.
func BillablePercentage(billableHours, standard, capacityReducing float64) float64 {
	available := AvailableHours(standard, capacityReducing)
	if available == 0 {
		return 0
	}
	return billableHours / available * 100
}

// Variance subtracts target from value. Without a target there is no variance.
func Variance(value float64, target *float64) *float64 {
	if target == nil {
		return nil
	}
	v := Round1(value - *target)
	return &v
}

// Recoverability is (1 + writeOn/(invoiced-writeOn)) * 100 when the net invoiced
// amount is positive, 0 otherwise. Write-on amounts are signed.
func Recoverability(writeOn, invoiced float64) float64 {
	net := invoiced - writeOn
	if net <= 0 {
		return 0
	}
	return (1 + writeOn/net) * 100
}

// RecoverabilityVariance compares recoverability with the fixed target
func RecoverabilityVariance(recoverability float64) float64 {
	return Round1(recoverability - RecoverabilityTarget)
}

// AverageRate is billable amount per billable hour, 0 without hours
func AverageRate(amount, hours float64) float64 {
	if hours == 0 {
		return 0
	}
	return amount / hours
}

// PointDifference compares two percentage-point metrics by subtraction
func PointDifference(current, last float64) float64 {
	return Round1(current - last)
}

// Round2 rounds currency to cents, halves toward positive infinity
func Round2(x float64) float64 {
	return roundTo(x, 100)
}

// Round1 rounds percentages and variances to one decimal
func Round1(x float64) float64 {
	return roundTo(x, 10)
}

func roundTo(x, scale float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Floor(x*scale+0.5) / scale
}
