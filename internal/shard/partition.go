// Package shard splits an export into per-year files and ships them to storage.
package shard

import (
	"sort"
)

// Partitions maps a four character year prefix to the raw rows published in it
type Partitions map[string][][]string

// Years returns the partition keys in ascending order
func (p Partitions) Years() []string {
	years := make([]string, 0, len(p))
	for y := range p {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// PartitionByYear groups rows by the first four characters of column dateCol.
// Rows too short to carry a year are dropped. Row order is kept within a year.
func PartitionByYear(rows [][]string, dateCol int) Partitions {
	out := make(Partitions)
	for _, row := range rows {
		if dateCol < 0 || dateCol >= len(row) || len(row[dateCol]) < 4 {
			continue
		}
		year := row[dateCol][:4]
		out[year] = append(out[year], row)
	}
	return out
}
