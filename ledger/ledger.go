package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SortFieldDate      = "date"
	SortFieldCreatedAt = "created_at"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Entry is the minimal view of a ledger transaction the balance
// computation needs. Amounts are decimals, never floats.
type Entry struct {
	ID        int64
	Date      time.Time
	CreatedAt time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

type EntryWithBalance struct {
	Entry
	BalanceAfter decimal.Decimal
}

// SortSpec describes the requested display ordering of a ledger.
// The balance computation itself always runs oldest-first on Field.
type SortSpec struct {
	Field string
	Order string
}

func (s SortSpec) Validate() error {
	if s.Field != SortFieldDate && s.Field != SortFieldCreatedAt {
		return fmt.Errorf("invalid sort field %q", s.Field)
	}
	if s.Order != SortOrderAsc && s.Order != SortOrderDesc {
		return fmt.Errorf("invalid sort order %q", s.Order)
	}
	return nil
}

func (e Entry) sortValue(field string) time.Time {
	if field == SortFieldCreatedAt {
		return e.CreatedAt
	}
	return e.Date
}

// ComputeBalances returns the entries ordered for display per spec, each
// annotated with the running balance after that entry. Balances come from a
// single chronological pass (spec.Field ascending, ties broken by ID) that is
// independent of the requested display order: asc vs desc changes the row
// order only, never a balance. Debits increase the balance, credits decrease
// it, so a positive balance means the client owes money.
func ComputeBalances(entries []Entry, spec SortSpec) []EntryWithBalance {
	chrono := make([]Entry, len(entries))
	copy(chrono, entries)
	sortEntries(chrono, spec.Field, true)

	balances := make(map[int64]decimal.Decimal, len(chrono))
	running := decimal.Zero
	for _, entry := range chrono {
		running = running.Add(entry.Debit).Sub(entry.Credit)
		balances[entry.ID] = running
	}

	display := chrono
	if spec.Order == SortOrderDesc {
		display = make([]Entry, len(entries))
		copy(display, entries)
		sortEntries(display, spec.Field, false)
	}

	result := make([]EntryWithBalance, len(display))
	for i, entry := range display {
		result[i] = EntryWithBalance{Entry: entry, BalanceAfter: balances[entry.ID]}
	}
	return result
}

func sortEntries(entries []Entry, field string, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		vi, vj := entries[i].sortValue(field), entries[j].sortValue(field)
		if !vi.Equal(vj) {
			if ascending {
				return vi.Before(vj)
			}
			return vi.After(vj)
		}
		// ties must order deterministically or balances are not reproducible
		if ascending {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].ID > entries[j].ID
	})
}

// Net returns sum(debit) - sum(credit) over the full set.
func Net(entries []Entry) decimal.Decimal {
	net := decimal.Zero
	for _, entry := range entries {
		net = net.Add(entry.Debit).Sub(entry.Credit)
	}
	return net
}

// CheckInvariant verifies that the balance of the chronologically last entry
// (field ascending, ID tie-break) equals the net sum of the whole set.
// A failure means the computation itself is broken and must not be ignored.
func CheckInvariant(result []EntryWithBalance, field string) error {
	if len(result) == 0 {
		return nil
	}
	last := result[0]
	entries := make([]Entry, len(result))
	for i, r := range result {
		entries[i] = r.Entry
		vl, vr := last.sortValue(field), r.sortValue(field)
		if vr.After(vl) || (vr.Equal(vl) && r.ID > last.ID) {
			last = result[i]
		}
	}
	net := Net(entries)
	if !last.BalanceAfter.Equal(net) {
		return fmt.Errorf("ledger invariant violated: final balance %s != net sum %s", last.BalanceAfter, net)
	}
	return nil
}
