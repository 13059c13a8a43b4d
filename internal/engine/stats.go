package engine

import (
	"time"

	cerrors "cloudeng.io/errors"
	"github.com/shopspring/decimal"
)

// Stats is the dashboard summary for a reference date.
type Stats struct {
	Total                  int             `json:"total"`
	Departments            int             `json:"departments"`
	BirthdaysToday         int             `json:"birthdaysToday"`
	AnniversariesToday     int             `json:"anniversariesToday"`
	BirthdaysThisMonth     int             `json:"birthdaysThisMonth"`
	AnniversariesThisMonth int             `json:"anniversariesThisMonth"`
	AverageAge             decimal.Decimal `json:"averageAge"`
	AverageTenure          decimal.Decimal `json:"averageTenure"`
}

// ComputeStats summarises employees relative to today. Averages only include
// records whose dates parse and are rounded to one decimal place.
func ComputeStats(employees []Employee, today time.Time) (Stats, error) {
	s := Stats{
		Total:       len(employees),
		Departments: len(Departments(employees)),
	}
	errs := &cerrors.M{}

	ageSum, ageN := decimal.Zero, 0
	tenureSum, tenureN := decimal.Zero, 0
	for _, e := range employees {
		if b, err := e.Date(FieldBirthday); err != nil {
			errs.Append(err)
		} else {
			if IsSameDayOfYear(today, b) {
				s.BirthdaysToday++
			}
			if b.Month() == today.Month() {
				s.BirthdaysThisMonth++
			}
			ageSum = ageSum.Add(decimal.NewFromInt(int64(AgeAt(today, b))))
			ageN++
		}
		if j, err := e.Date(FieldJoinDate); err != nil {
			errs.Append(err)
		} else {
			if IsSameDayOfYear(today, j) {
				s.AnniversariesToday++
			}
			if j.Month() == today.Month() {
				s.AnniversariesThisMonth++
			}
			tenureSum = tenureSum.Add(decimal.NewFromInt(int64(YearsOfService(today, j))))
			tenureN++
		}
	}
	s.AverageAge = average(ageSum, ageN)
	s.AverageTenure = average(tenureSum, tenureN)
	return s, errs.Err()
}

func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(1)
}
