package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"spindon-server/src/models"
)

// OtherBucket collects spendings that carry no category.
const OtherBucket = "other"

const dateLayout = "2006-01-02"

// MonthRange returns the inclusive first/last calendar day of (year, month)
// in UTC. Day 0 of the following month is the last day of this one, so month
// length and leap years need no special casing.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

type CategoryStat struct {
	Name       string `json:"name"`
	Amount     int64  `json:"amount"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type PaymentMethodStat struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Amount     int64  `json:"amount"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type SpendingStatistics struct {
	TotalAmount             int64                        `json:"total_amount"`
	AvoidableAmount         int64                        `json:"avoidable_amount"`
	FixedAmount             int64                        `json:"fixed_amount"`
	NecessaryAmount         int64                        `json:"necessary_amount"`
	GeneralAmount           int64                        `json:"general_amount"`
	TotalCount              int                          `json:"total_count"`
	CategoryStatistics      map[string]CategoryStat      `json:"category_statistics"`
	PaymentMethodStatistics map[string]PaymentMethodStat `json:"payment_method_statistics"`
	DailySpent              map[string]int64             `json:"daily_spent"`
}

// Summarize reduces a set of spending rows into totals, per-category and
// per-payment-method buckets and a per-day calendar. It never mutates its
// input and is insensitive to row order. Each row lands in exactly one
// category bucket, so category amounts always sum back to TotalAmount.
func Summarize(spendings []models.Spending) SpendingStatistics {
	s := SpendingStatistics{
		TotalCount:              len(spendings),
		CategoryStatistics:      make(map[string]CategoryStat),
		PaymentMethodStatistics: make(map[string]PaymentMethodStat),
		DailySpent:              make(map[string]int64),
	}

	for _, sp := range spendings {
		s.TotalAmount += sp.Amount
		switch {
		case sp.Avoidable:
			s.AvoidableAmount += sp.Amount
		case sp.Fixed:
			s.FixedAmount += sp.Amount
		case sp.Necessary:
			s.NecessaryAmount += sp.Amount
		default:
			s.GeneralAmount += sp.Amount
		}

		name := OtherBucket
		if sp.CategoryName != nil {
			name = *sp.CategoryName
		}
		cs := s.CategoryStatistics[name]
		cs.Name = name
		cs.Amount += sp.Amount
		cs.Count++
		s.CategoryStatistics[name] = cs

		if sp.PaymentMethodID != nil {
			key := strconv.FormatInt(*sp.PaymentMethodID, 10)
			ps := s.PaymentMethodStatistics[key]
			if sp.PaymentMethodName != nil {
				ps.Name = *sp.PaymentMethodName
			}
			if sp.PaymentMethodType != nil {
				ps.Type = *sp.PaymentMethodType
			}
			ps.Amount += sp.Amount
			ps.Count++
			s.PaymentMethodStatistics[key] = ps
		}

		s.DailySpent[sp.SpentDate.Format(dateLayout)] += sp.Amount
	}

	for name, cs := range s.CategoryStatistics {
		cs.Percentage = Share(cs.Amount, s.TotalAmount)
		s.CategoryStatistics[name] = cs
	}
	for key, ps := range s.PaymentMethodStatistics {
		ps.Percentage = Share(ps.Amount, s.TotalAmount)
		s.PaymentMethodStatistics[key] = ps
	}

	return s
}

// DailyTotals maps ISO dates (YYYY-MM-DD) to the summed amount spent that day.
func DailyTotals(spendings []models.Spending) map[string]int64 {
	daily := make(map[string]int64)
	for _, sp := range spendings {
		daily[sp.SpentDate.Format(dateLayout)] += sp.Amount
	}
	return daily
}

// Share is the rounded percentage of amount against total, 0 when total is 0.
func Share(amount, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(amount) / float64(total) * 100))
}

// Average is the floored mean of amounts, 0 for an empty set.
func Average(amounts []int64) int64 {
	if len(amounts) == 0 {
		return 0
	}
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total / int64(len(amounts))
}

type IncomeStatistics struct {
	TotalAmount   int64 `json:"total_amount"`
	TotalCount    int   `json:"total_count"`
	AverageAmount int64 `json:"average_amount"`
	HighestAmount int64 `json:"highest_amount"`
	LowestAmount  int64 `json:"lowest_amount"`
}

func SummarizeIncomes(incomes []models.Income) IncomeStatistics {
	s := IncomeStatistics{TotalCount: len(incomes)}
	for i, in := range incomes {
		s.TotalAmount += in.Amount
		if i == 0 || in.Amount > s.HighestAmount {
			s.HighestAmount = in.Amount
		}
		if i == 0 || in.Amount < s.LowestAmount {
			s.LowestAmount = in.Amount
		}
	}
	if s.TotalCount > 0 {
		s.AverageAmount = s.TotalAmount / int64(s.TotalCount)
	}
	return s
}

// SortedDates returns the keys of a daily map in ascending date order.
// Handy for rendering progress calendars deterministically.
func SortedDates(daily map[string]int64) []string {
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
