package pager

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Supported image extensions, lowercase with the leading dot.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Supported reports whether ext (any case) is a supported image extension.
func Supported(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// FileEntry is one supported image found by a walk.
type FileEntry struct {
	Path string
	Ext  string // lowercased, includes the dot
}

func (f FileEntry) Name() string {
	return filepath.Base(f.Path)
}

// DirContents is one directory from WalkDirs. Names holds every entry in the
// directory, images or not; Files only the supported images, in walk order.
type DirContents struct {
	Dir   string
	Names []string
	Files []FileEntry
}

// Walk returns every supported image under root in lexical walk order.
// Directories listed in skip (and everything below them) are not entered.
func Walk(root string, skip ...string) ([]FileEntry, error) {
	var files []FileEntry
	err := walk(root, skip, func(path string, d fs.DirEntry) {
		if entry, ok := newEntry(path, d); ok {
			files = append(files, entry)
		}
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// WalkDirs walks root like Walk but groups the result per directory and keeps
// the full list of names found in each one.
func WalkDirs(root string, skip ...string) ([]DirContents, error) {
	var (
		dirs  []DirContents
		index = map[string]int{}
	)
	contents := func(dir string) *DirContents {
		dir = filepath.Clean(dir)
		i, ok := index[dir]
		if !ok {
			i = len(dirs)
			index[dir] = i
			dirs = append(dirs, DirContents{Dir: dir})
		}
		return &dirs[i]
	}
	err := walk(root, skip, func(path string, d fs.DirEntry) {
		if d.IsDir() {
			contents(path)
			if filepath.Clean(path) == filepath.Clean(root) {
				return
			}
		}
		parent := contents(filepath.Dir(path))
		parent.Names = append(parent.Names, d.Name())
		if entry, ok := newEntry(path, d); ok {
			parent.Files = append(parent.Files, entry)
		}
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

func newEntry(path string, d fs.DirEntry) (FileEntry, bool) {
	if !d.Type().IsRegular() {
		return FileEntry{}, false
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !imageExtensions[ext] {
		return FileEntry{}, false
	}
	return FileEntry{Path: path, Ext: ext}, true
}

// walk calls fn for every entry under root, root included. Skipped
// directories are reported to fn but not entered. A root that is a symlink
// is followed; links below it are not.
func walk(root string, skip []string, fn func(path string, d fs.DirEntry)) error {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[filepath.Clean(s)] = true
	}
	start := root
	if info, err := os.Lstat(root); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		// WalkDir uses Lstat on its root, a trailing separator makes it resolve the link
		start = root + string(filepath.Separator)
	}
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if path == start {
			path = root
		}
		if err != nil {
			return &PathError{Op: "walk", Path: path, Err: err}
		}
		fn(path, d)
		if d.IsDir() && skipped[filepath.Clean(path)] {
			return filepath.SkipDir
		}
		return nil
	})
	return err
}
