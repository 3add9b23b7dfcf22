package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Pair is an ordered (from, to) currency code tuple naming one exchange rate.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewPair normalizes both codes to upper case.
func NewPair(from, to string) Pair {
	return Pair{From: strings.ToUpper(from), To: strings.ToUpper(to)}
}

// Key returns the canonical "FROM_TO" form used as the storage key.
func (p Pair) Key() string {
	return p.From + "_" + p.To
}

// ParsePairKey splits a "FROM_TO" key back into a Pair.
func ParsePairKey(key string) (Pair, error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("malformed pair key %q", key)
	}
	return NewPair(parts[0], parts[1]), nil
}

// RateEntry is one cached exchange rate with its provenance. Rate is always
// strictly positive; entries that would violate this never enter a RateTable.
type RateEntry struct {
	Pair      Pair            `json:"pair"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Source    string          `json:"source"`
}

// IsStale reports whether the entry is older than the given time-to-live.
// Staleness is advisory: callers still get the rate and decide for themselves.
func (e RateEntry) IsStale(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.UpdatedAt) > ttl
}

// RateTable is the merged pair-rate cache. LastRefresh covers the table as a
// whole; a zero value means the table has never been refreshed.
type RateTable struct {
	Pairs       map[string]RateEntry `json:"pairs"`
	LastRefresh time.Time            `json:"lastRefresh"`
}

// NewRateTable creates an empty table.
func NewRateTable() RateTable {
	return RateTable{Pairs: make(map[string]RateEntry)}
}

// Lookup returns the entry for a pair, if present.
func (t RateTable) Lookup(p Pair) (RateEntry, bool) {
	e, ok := t.Pairs[p.Key()]
	return e, ok
}

// Merge overwrites the entries present in newEntries, leaves every other pair
// untouched and advances LastRefresh. Last writer wins per pair, not per table.
func (t *RateTable) Merge(newEntries []RateEntry, now time.Time) {
	if t.Pairs == nil {
		t.Pairs = make(map[string]RateEntry)
	}
	for _, e := range newEntries {
		t.Pairs[e.Pair.Key()] = e
	}
	t.LastRefresh = now
}

// IsEmpty reports whether the table holds no pairs at all. A freshly loaded
// table from a missing store file is empty rather than an error, so callers
// check this before relying on lookups.
func (t RateTable) IsEmpty() bool {
	return len(t.Pairs) == 0
}
