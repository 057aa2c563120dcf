package pager

import (
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
)

func TestBuildOrderAndSort(t *testing.T) {
	in := entries("img10.jpg", "img2.jpg", "img1.png", "note.txt")
	ordered, dropped := BuildOrder(in, ConcatenatedDigits)

	var keys []OrderKey
	for _, e := range ordered {
		keys = append(keys, e.Key)
	}
	if diff := pretty.Diff(keys, []OrderKey{10, 2, 1}); len(diff) > 0 {
		t.Errorf("keys: %v", diff)
	}
	if diff := pretty.Diff(names(dropped), []string{"note.txt"}); len(diff) > 0 {
		t.Errorf("dropped: %v", diff)
	}

	sorted := SortEntries(ordered)
	if diff := pretty.Diff(orderedNames(sorted), []string{"img1.png", "img2.jpg", "img10.jpg"}); len(diff) > 0 {
		t.Errorf("sorted: %v", diff)
	}
}

func TestSortEntries_Stable(t *testing.T) {
	in := []OrderedEntry{
		{Key: 2, Entry: FileEntry{Path: "img2.jpg"}},
		{Key: 1, Entry: FileEntry{Path: "1.jpg"}},
		{Key: 2, Entry: FileEntry{Path: "2_backup.jpg"}},
		{Key: 0, Entry: FileEntry{Path: "0.jpg"}},
		{Key: 2, Entry: FileEntry{Path: "page2.png"}},
	}
	got := orderedNames(SortEntries(in))
	want := []string{"0.jpg", "1.jpg", "img2.jpg", "2_backup.jpg", "page2.png"}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("SortEntries: %v", diff)
	}
	// input is left alone
	if in[0].Entry.Path != "img2.jpg" {
		t.Errorf("SortEntries modified its input")
	}
}

func TestSortEntries_Idempotent(t *testing.T) {
	ordered, _ := BuildOrder(entries("c3.jpg", "b3.jpg", "a20.jpg", "z1.jpg", "3.png", "q0.jpg"), FirstDigitRunOnly)
	once := SortEntries(ordered)
	twice := SortEntries(once)
	if diff := pretty.Diff(once, twice); len(diff) > 0 {
		t.Errorf("sorting sorted input changed it: %v", diff)
	}
}

func TestSortEntries_Small(t *testing.T) {
	if got := SortEntries(nil); len(got) != 0 {
		t.Errorf("SortEntries(nil) = %v", got)
	}
	one := []OrderedEntry{{Key: 4, Entry: FileEntry{Path: "4.jpg"}}}
	if diff := pretty.Diff(SortEntries(one), one); len(diff) > 0 {
		t.Errorf("single element: %v", diff)
	}
}

func TestOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "img10.jpg")
	touch(t, dir, "img2.jpg")
	touch(t, dir, "img1.png")
	touch(t, dir, "note.txt")
	touch(t, dir, "cover.jpg")
	touch(t, dir, filepath.Join("extra", "img3.jpeg"))

	sorted, dropped, err := Order(dir, ConcatenatedDigits)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	want := []string{"img1.png", "img2.jpg", "img3.jpeg", "img10.jpg"}
	if diff := pretty.Diff(orderedNames(sorted), want); len(diff) > 0 {
		t.Errorf("Order: %v", diff)
	}
	if diff := pretty.Diff(names(dropped), []string{"cover.jpg"}); len(diff) > 0 {
		t.Errorf("dropped: %v", diff)
	}
	if paths := Paths(sorted); paths[0] != filepath.Join(dir, "img1.png") {
		t.Errorf("Paths()[0] = %s", paths[0])
	}
}

func TestOrder_EmptyDir(t *testing.T) {
	sorted, dropped, err := Order(t.TempDir(), ConcatenatedDigits)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if len(sorted) != 0 || len(dropped) != 0 {
		t.Errorf("Order on empty dir = %v, %v", sorted, dropped)
	}
}
