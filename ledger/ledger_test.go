package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func entry(id int64, day int, debit, credit int64) Entry {
	return Entry{
		ID:        id,
		Date:      date(day),
		CreatedAt: date(1).Add(time.Duration(id) * time.Minute),
		Debit:     decimal.NewFromInt(debit),
		Credit:    decimal.NewFromInt(credit),
	}
}

func threeEntries() []Entry {
	// deliberately unordered input
	return []Entry{
		entry(3, 10, 300, 0),
		entry(1, 1, 500, 0),
		entry(2, 5, 0, 200),
	}
}

func TestComputeBalancesEmpty(t *testing.T) {
	result := ComputeBalances([]Entry{}, SortSpec{Field: SortFieldDate, Order: SortOrderAsc})
	assert.Empty(t, result)

	result = ComputeBalances(nil, SortSpec{Field: SortFieldCreatedAt, Order: SortOrderDesc})
	assert.Empty(t, result)
}

func TestComputeBalancesSingleEntry(t *testing.T) {
	spec := SortSpec{Field: SortFieldDate, Order: SortOrderAsc}

	result := ComputeBalances([]Entry{entry(1, 1, 100, 0)}, spec)
	assert.Len(t, result, 1)
	assert.True(t, result[0].BalanceAfter.Equal(decimal.NewFromInt(100)))

	result = ComputeBalances([]Entry{entry(1, 1, 0, 100)}, spec)
	assert.True(t, result[0].BalanceAfter.Equal(decimal.NewFromInt(-100)))
}

func TestComputeBalancesChronological(t *testing.T) {
	result := ComputeBalances(threeEntries(), SortSpec{Field: SortFieldDate, Order: SortOrderAsc})

	assert.Len(t, result, 3)
	assert.Equal(t, int64(1), result[0].ID)
	assert.Equal(t, int64(2), result[1].ID)
	assert.Equal(t, int64(3), result[2].ID)
	assert.Equal(t, "500", result[0].BalanceAfter.String())
	assert.Equal(t, "300", result[1].BalanceAfter.String())
	assert.Equal(t, "600", result[2].BalanceAfter.String())
}

func TestComputeBalancesDescendingKeepsBalances(t *testing.T) {
	result := ComputeBalances(threeEntries(), SortSpec{Field: SortFieldDate, Order: SortOrderDesc})

	// reversed row order, same per-id balances
	assert.Equal(t, int64(3), result[0].ID)
	assert.Equal(t, int64(2), result[1].ID)
	assert.Equal(t, int64(1), result[2].ID)
	assert.Equal(t, "600", result[0].BalanceAfter.String())
	assert.Equal(t, "300", result[1].BalanceAfter.String())
	assert.Equal(t, "500", result[2].BalanceAfter.String())
}

func TestComputeBalancesAfterDelete(t *testing.T) {
	entries := threeEntries()
	// drop the middle credit of 200
	remaining := []Entry{entries[0], entries[1]}

	result := ComputeBalances(remaining, SortSpec{Field: SortFieldDate, Order: SortOrderAsc})
	assert.Equal(t, "500", result[0].BalanceAfter.String())
	assert.Equal(t, "800", result[1].BalanceAfter.String())
}

func TestComputeBalancesDeterministicOnTies(t *testing.T) {
	// three entries sharing the same date, distinct ids
	entries := []Entry{
		entry(7, 5, 100, 0),
		entry(5, 5, 0, 40),
		entry(6, 5, 10, 0),
	}
	spec := SortSpec{Field: SortFieldDate, Order: SortOrderAsc}

	first := ComputeBalances(entries, spec)
	second := ComputeBalances(entries, spec)
	assert.Equal(t, first, second)

	// ties resolve by id ascending
	assert.Equal(t, int64(5), first[0].ID)
	assert.Equal(t, int64(6), first[1].ID)
	assert.Equal(t, int64(7), first[2].ID)
	assert.Equal(t, "-40", first[0].BalanceAfter.String())
	assert.Equal(t, "-30", first[1].BalanceAfter.String())
	assert.Equal(t, "70", first[2].BalanceAfter.String())
}

func TestComputeBalancesByCreatedAt(t *testing.T) {
	entries := []Entry{
		// backdated entry created last: date order and creation order disagree
		{ID: 1, Date: date(20), CreatedAt: date(1), Debit: decimal.NewFromInt(100)},
		{ID: 2, Date: date(2), CreatedAt: date(3), Credit: decimal.NewFromInt(30)},
	}

	byDate := ComputeBalances(entries, SortSpec{Field: SortFieldDate, Order: SortOrderAsc})
	assert.Equal(t, int64(2), byDate[0].ID)
	assert.Equal(t, "-30", byDate[0].BalanceAfter.String())
	assert.Equal(t, "70", byDate[1].BalanceAfter.String())

	byCreated := ComputeBalances(entries, SortSpec{Field: SortFieldCreatedAt, Order: SortOrderAsc})
	assert.Equal(t, int64(1), byCreated[0].ID)
	assert.Equal(t, "100", byCreated[0].BalanceAfter.String())
	assert.Equal(t, "70", byCreated[1].BalanceAfter.String())
}

func TestComputeBalancesNoFloatDrift(t *testing.T) {
	cents := decimal.New(1, -2) // 0.01
	entries := make([]Entry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entries = append(entries, Entry{
			ID:        int64(i + 1),
			Date:      date(1).Add(time.Duration(i) * time.Hour),
			CreatedAt: date(1).Add(time.Duration(i) * time.Hour),
			Debit:     cents,
		})
	}

	result := ComputeBalances(entries, SortSpec{Field: SortFieldDate, Order: SortOrderAsc})
	assert.Equal(t, "10", result[len(result)-1].BalanceAfter.String())
}

func TestFinalBalanceEqualsNetSum(t *testing.T) {
	for _, order := range []string{SortOrderAsc, SortOrderDesc} {
		for _, field := range []string{SortFieldDate, SortFieldCreatedAt} {
			result := ComputeBalances(threeEntries(), SortSpec{Field: field, Order: order})
			assert.NoError(t, CheckInvariant(result, field))
		}
	}
}

func TestCheckInvariantDetectsCorruption(t *testing.T) {
	result := ComputeBalances(threeEntries(), SortSpec{Field: SortFieldDate, Order: SortOrderAsc})
	result[2].BalanceAfter = decimal.NewFromInt(999)

	assert.Error(t, CheckInvariant(result, SortFieldDate))
}

func TestSortSpecValidate(t *testing.T) {
	assert.NoError(t, SortSpec{Field: SortFieldDate, Order: SortOrderAsc}.Validate())
	assert.NoError(t, SortSpec{Field: SortFieldCreatedAt, Order: SortOrderDesc}.Validate())
	assert.Error(t, SortSpec{Field: "amount", Order: SortOrderAsc}.Validate())
	assert.Error(t, SortSpec{Field: SortFieldDate, Order: "random"}.Validate())
}
