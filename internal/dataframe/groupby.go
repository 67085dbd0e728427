package dataframe

import (
	"sort"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/paveg/salesreport/internal/errors"
)

// GroupBy partitions the rows of a DataFrame by the distinct values of one
// key column. Rows with a null key belong to no group.
type GroupBy struct {
	df     *DataFrame
	key    string
	groups []*group // natural key order
}

type group struct {
	key  string
	rows []int
}

// groupIndex uses xxhash to bucket group keys, chaining on collision.
type groupIndex struct {
	buckets map[uint64][]*group
	order   []*group
}

func newGroupIndex() *groupIndex {
	return &groupIndex{buckets: make(map[uint64][]*group)}
}

func (gi *groupIndex) add(key string, row int) {
	hash := xxhash.Sum64String(key)
	for _, g := range gi.buckets[hash] {
		if g.key == key {
			g.rows = append(g.rows, row)
			return
		}
	}
	g := &group{key: key, rows: []int{row}}
	gi.buckets[hash] = append(gi.buckets[hash], g)
	gi.order = append(gi.order, g)
}

// GroupBy groups the rows by the given key column. Groups are ordered by
// natural key order: numerically for numeric keys, lexically otherwise.
func (df *DataFrame) GroupBy(column string) (*GroupBy, error) {
	s, ok := df.columns[column]
	if !ok {
		return nil, errors.NewColumnNotFoundError("GroupBy", column)
	}

	index := newGroupIndex()
	for row := 0; row < s.Len(); row++ {
		if s.IsNull(row) {
			continue
		}
		index.add(s.GetAsString(row), row)
	}

	groups := index.order
	if isNumericType(s.DataType()) {
		sort.SliceStable(groups, func(i, j int) bool {
			return numericKey(groups[i].key) < numericKey(groups[j].key)
		})
	} else {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].key < groups[j].key
		})
	}

	return &GroupBy{df: df, key: column, groups: groups}, nil
}

// Keys returns the group keys in natural order.
func (gb *GroupBy) Keys() []string {
	keys := make([]string, len(gb.groups))
	for i, g := range gb.groups {
		keys[i] = g.key
	}
	return keys
}

// Sum adds up the non-null values of a numeric column per group. A group
// whose values are all null sums to 0.
func (gb *GroupBy) Sum(column string) (*Aggregation, error) {
	values, valid, err := gb.df.Float64s("Sum", column)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(gb.groups))
	for i, g := range gb.groups {
		total := 0.0
		for _, row := range g.rows {
			if valid[row] {
				total += values[row]
			}
		}
		entries[i] = Entry{Key: g.key, Value: total}
	}
	return &Aggregation{KeyColumn: gb.key, ValueColumn: column, Entries: entries}, nil
}

// GroupValues holds the non-null values of one group.
type GroupValues struct {
	Key    string
	Values []float64
}

// Collect gathers the non-null values of a numeric column per group.
func (gb *GroupBy) Collect(column string) ([]GroupValues, error) {
	values, valid, err := gb.df.Float64s("Collect", column)
	if err != nil {
		return nil, err
	}

	result := make([]GroupValues, len(gb.groups))
	for i, g := range gb.groups {
		collected := make([]float64, 0, len(g.rows))
		for _, row := range g.rows {
			if valid[row] {
				collected = append(collected, values[row])
			}
		}
		result[i] = GroupValues{Key: g.key, Values: collected}
	}
	return result, nil
}

// CrossTab counts rows for every (row key, column key) pair of two columns.
type CrossTab struct {
	RowColumn string
	ColColumn string
	RowKeys   []string
	ColKeys   []string
	Counts    [][]int // Counts[row][col]
}

// CrossCount tabulates row counts by two key columns. Both key sets are in
// natural order; rows with a null in either key are not counted.
func (df *DataFrame) CrossCount(rowColumn, colColumn string) (*CrossTab, error) {
	byRow, err := df.GroupBy(rowColumn)
	if err != nil {
		return nil, err
	}
	byCol, err := df.GroupBy(colColumn)
	if err != nil {
		return nil, err
	}

	colOf := make(map[int]int, df.Len())
	for c, g := range byCol.groups {
		for _, row := range g.rows {
			colOf[row] = c
		}
	}

	counts := make([][]int, len(byRow.groups))
	for r, g := range byRow.groups {
		counts[r] = make([]int, len(byCol.groups))
		for _, row := range g.rows {
			if c, ok := colOf[row]; ok {
				counts[r][c]++
			}
		}
	}

	return &CrossTab{
		RowColumn: rowColumn,
		ColColumn: colColumn,
		RowKeys:   byRow.Keys(),
		ColKeys:   byCol.Keys(),
		Counts:    counts,
	}, nil
}

func numericKey(key string) float64 {
	v, _ := strconv.ParseFloat(key, 64)
	return v
}
