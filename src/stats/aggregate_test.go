package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spindon-server/src/models"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func strptr(s string) *string { return &s }

func int64ptr(n int64) *int64 { return &n }

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year, month int
		wantEnd     time.Time
	}{
		{2024, 2, day(2024, 2, 29)},
		{2023, 2, day(2023, 2, 28)},
		{2024, 12, day(2024, 12, 31)},
		{2024, 4, day(2024, 4, 30)},
	}
	for _, tc := range tests {
		start, end := MonthRange(tc.year, tc.month)
		assert.Equal(t, day(tc.year, tc.month, 1), start)
		assert.Equal(t, tc.wantEnd, end)
	}
}

func TestSummarize(t *testing.T) {
	pm := int64ptr(7)
	spendings := []models.Spending{
		{Amount: 10000, Avoidable: true, CategoryName: strptr("food"), SpentDate: day(2024, 3, 5)},
		{Amount: 20000, CategoryName: strptr("food"), SpentDate: day(2024, 3, 5),
			PaymentMethodID: pm, PaymentMethodName: strptr("check card"), PaymentMethodType: strptr("card")},
		{Amount: 35000, Avoidable: true, SpentDate: day(2024, 3, 6)},
	}

	s := Summarize(spendings)

	assert.Equal(t, int64(65000), s.TotalAmount)
	assert.Equal(t, int64(45000), s.AvoidableAmount)
	assert.Equal(t, int64(20000), s.GeneralAmount)
	assert.Equal(t, 3, s.TotalCount)

	require.Contains(t, s.CategoryStatistics, "food")
	require.Contains(t, s.CategoryStatistics, OtherBucket)
	assert.Equal(t, int64(30000), s.CategoryStatistics["food"].Amount)
	assert.Equal(t, 2, s.CategoryStatistics["food"].Count)
	assert.Equal(t, int64(35000), s.CategoryStatistics[OtherBucket].Amount)

	// single-valued categories: bucket amounts sum back to the total
	var bucketSum int64
	for _, cs := range s.CategoryStatistics {
		bucketSum += cs.Amount
	}
	assert.Equal(t, s.TotalAmount, bucketSum)

	require.Contains(t, s.PaymentMethodStatistics, "7")
	assert.Equal(t, "check card", s.PaymentMethodStatistics["7"].Name)
	assert.Equal(t, "card", s.PaymentMethodStatistics["7"].Type)
	assert.Equal(t, 1, s.PaymentMethodStatistics["7"].Count)

	assert.Equal(t, int64(30000), s.DailySpent["2024-03-05"])
	assert.Equal(t, int64(35000), s.DailySpent["2024-03-06"])
}

func TestSummarizeOrderInsensitiveAndIdempotent(t *testing.T) {
	a := []models.Spending{
		{Amount: 100, CategoryName: strptr("a"), SpentDate: day(2024, 1, 1)},
		{Amount: 200, CategoryName: strptr("b"), SpentDate: day(2024, 1, 2)},
		{Amount: 300, SpentDate: day(2024, 1, 2)},
	}
	b := []models.Spending{a[2], a[0], a[1]}

	first, err := json.Marshal(Summarize(a))
	require.NoError(t, err)
	second, err := json.Marshal(Summarize(a))
	require.NoError(t, err)
	permuted, err := json.Marshal(Summarize(b))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, string(first), string(permuted))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalAmount)
	assert.Empty(t, s.CategoryStatistics)
	assert.Empty(t, s.DailySpent)
}

func TestSharePercentagesSumToRoughly100(t *testing.T) {
	spendings := []models.Spending{
		{Amount: 333, CategoryName: strptr("a"), SpentDate: day(2024, 1, 1)},
		{Amount: 333, CategoryName: strptr("b"), SpentDate: day(2024, 1, 1)},
		{Amount: 334, CategoryName: strptr("c"), SpentDate: day(2024, 1, 1)},
	}
	s := Summarize(spendings)
	sum := 0
	for _, cs := range s.CategoryStatistics {
		sum += cs.Percentage
	}
	assert.InDelta(t, 100, sum, 3)
}

func TestShareZeroGuard(t *testing.T) {
	assert.Equal(t, 0, Share(500, 0))
	assert.Equal(t, 124, Share(62000, 50000))
	assert.Equal(t, 50, Share(1, 2))
}

func TestAverage(t *testing.T) {
	assert.Equal(t, int64(0), Average(nil))
	assert.Equal(t, int64(0), Average([]int64{}))
	assert.Equal(t, int64(333), Average([]int64{100, 200, 700}))
	assert.Equal(t, int64(21666), Average([]int64{10000, 20000, 35000}))
}

func TestSummarizeIncomes(t *testing.T) {
	s := SummarizeIncomes([]models.Income{
		{Amount: 3000000},
		{Amount: 150000},
		{Amount: 500000},
	})
	assert.Equal(t, int64(3650000), s.TotalAmount)
	assert.Equal(t, 3, s.TotalCount)
	assert.Equal(t, int64(1216666), s.AverageAmount)
	assert.Equal(t, int64(3000000), s.HighestAmount)
	assert.Equal(t, int64(150000), s.LowestAmount)

	assert.Zero(t, SummarizeIncomes(nil).AverageAmount)
}

func TestSortedDates(t *testing.T) {
	daily := map[string]int64{"2024-03-10": 1, "2024-03-02": 2, "2024-02-28": 3}
	assert.Equal(t, []string{"2024-02-28", "2024-03-02", "2024-03-10"}, SortedDates(daily))
}
