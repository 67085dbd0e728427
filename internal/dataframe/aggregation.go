package dataframe

import (
	"sort"
)

// Entry is one (group key, value) pair of an aggregation.
type Entry struct {
	Key   string
	Value float64
}

// Aggregation maps group keys to summary values. Entries keep the order in
// which they were produced: natural key order from GroupBy, or descending
// value after SortDescending.
type Aggregation struct {
	KeyColumn   string
	ValueColumn string
	Entries     []Entry
}

// Len returns the number of groups
func (a *Aggregation) Len() int {
	return len(a.Entries)
}

// Keys returns the group keys in entry order
func (a *Aggregation) Keys() []string {
	keys := make([]string, len(a.Entries))
	for i, e := range a.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the values in entry order
func (a *Aggregation) Values() []float64 {
	values := make([]float64, len(a.Entries))
	for i, e := range a.Entries {
		values[i] = e.Value
	}
	return values
}

// Get returns the value for key
func (a *Aggregation) Get(key string) (float64, bool) {
	for _, e := range a.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// SortDescending returns a copy ordered by descending value. Ties keep
// their current relative order.
func (a *Aggregation) SortDescending() *Aggregation {
	sorted := a.clone()
	sort.SliceStable(sorted.Entries, func(i, j int) bool {
		return sorted.Entries[i].Value > sorted.Entries[j].Value
	})
	return sorted
}

// Head returns a copy holding at most the first n entries.
func (a *Aggregation) Head(n int) *Aggregation {
	head := a.clone()
	if n >= 0 && n < len(head.Entries) {
		head.Entries = head.Entries[:n]
	}
	return head
}

// Ratio divides a by denominator key by key and multiplies by scale. The
// result has exactly the keys of denominator, in its order. A key that is
// absent from a, or whose denominator is zero, yields 0.
func (a *Aggregation) Ratio(denominator *Aggregation, scale float64, valueColumn string) *Aggregation {
	numerators := make(map[string]float64, len(a.Entries))
	for _, e := range a.Entries {
		numerators[e.Key] = e.Value
	}

	entries := make([]Entry, len(denominator.Entries))
	for i, d := range denominator.Entries {
		value := 0.0
		if n, ok := numerators[d.Key]; ok && n != 0 && d.Value != 0 {
			value = scale * n / d.Value
		}
		entries[i] = Entry{Key: d.Key, Value: value}
	}
	return &Aggregation{KeyColumn: denominator.KeyColumn, ValueColumn: valueColumn, Entries: entries}
}

func (a *Aggregation) clone() *Aggregation {
	return &Aggregation{
		KeyColumn:   a.KeyColumn,
		ValueColumn: a.ValueColumn,
		Entries:     append([]Entry(nil), a.Entries...),
	}
}
