package interest

import (
	"github.com/shopspring/decimal"
)

// daysPerYear is the banking convention used for daily compounding of an
// annual nominal rate.
const daysPerYear = 365

// divisionPrecision gives enough guard digits that 360+ repeated
// multiplications still round correctly to 2 decimal places.
const divisionPrecision = 24

// CalculateReturn computes the accrued return of a principal invested at an
// annual nominal rate (percent) compounded daily over termDays:
//
//	principal * (1 + rate/100/365)^termDays - principal
//
// rounded to 2 decimal places. It is pure and performs no validation; the
// creation path rejects non-positive inputs before calling it.
func CalculateReturn(principal, annualRatePercent decimal.Decimal, termDays int) decimal.Decimal {
	dailyRate := annualRatePercent.DivRound(decimal.NewFromInt(100*daysPerYear), divisionPrecision)
	base := decimal.NewFromInt(1).Add(dailyRate)
	factor := base.Pow(decimal.NewFromInt(int64(termDays)))
	return principal.Mul(factor).Sub(principal).Round(2)
}

// MaturityAmount is the principal plus its accrued return, the amount paid
// out when a certificate completes.
func MaturityAmount(principal, annualRatePercent decimal.Decimal, termDays int) decimal.Decimal {
	return principal.Add(CalculateReturn(principal, annualRatePercent, termDays))
}
