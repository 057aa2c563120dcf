// Package pager puts directories of scanned pages in order using the numbers
// in their filenames, and renumbers them.
package pager

import (
	"cmp"
	"slices"
)

// OrderedEntry pairs a file with the key it is sorted by.
type OrderedEntry struct {
	Key   OrderKey
	Entry FileEntry
}

// BuildOrder keys every entry with strategy. Entries without a key are
// returned in dropped rather than given a default key.
func BuildOrder(entries []FileEntry, strategy Strategy) (ordered []OrderedEntry, dropped []FileEntry) {
	ordered = make([]OrderedEntry, 0, len(entries))
	for _, entry := range entries {
		key, ok := strategy.Key(entry.Name())
		if !ok {
			dropped = append(dropped, entry)
			continue
		}
		ordered = append(ordered, OrderedEntry{Key: key, Entry: entry})
	}
	return ordered, dropped
}

// SortEntries returns a copy of entries sorted ascending by key. Entries with
// equal keys keep their input order.
func SortEntries(entries []OrderedEntry) []OrderedEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b OrderedEntry) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return sorted
}

// Order walks root and returns its images in page order along with the
// images that had no order key.
func Order(root string, strategy Strategy, skip ...string) ([]OrderedEntry, []FileEntry, error) {
	files, err := Walk(root, skip...)
	if err != nil {
		return nil, nil, err
	}
	ordered, dropped := BuildOrder(files, strategy)
	return SortEntries(ordered), dropped, nil
}

// Paths returns the file paths of entries, in order.
func Paths(entries []OrderedEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Entry.Path)
	}
	return paths
}
