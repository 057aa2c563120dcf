// Package job resolves command line requests into one of a closed set of
// jobs and runs them.
package job

import (
	"errors"
	"fmt"
	"os"

	pager "gitea.narnian.us/lordwelch/comic-pager"
	"gitea.narnian.us/lordwelch/comic-pager/imageio"
)

var (
	ErrNoAction       = errors.New("no action given: use a scale, crop or sort option")
	ErrTooManyActions = errors.New("only one of scale, crop or sort may be given")
	ErrSortNeedsDir   = errors.New("sorting needs a directory")
)

// Job is one of ScaleDirectory, ScaleFile, CropDirectory, CropFile or
// SortDirectory.
type Job interface {
	job()
}

type ScaleDirectory struct {
	Dir      string
	Size     imageio.Size
	Override bool
}

type ScaleFile struct {
	Path     string
	Size     imageio.Size
	Override bool
}

type CropDirectory struct {
	Dir      string
	Size     imageio.Size
	Override bool
}

type CropFile struct {
	Path     string
	Size     imageio.Size
	Override bool
}

type SortDirectory struct {
	Dir      string
	Offset   int64
	Strategy pager.Strategy
	DryRun   bool
	// Journal, when set, is where applied renames are recorded.
	Journal       string
	JournalFormat pager.Format
}

func (ScaleDirectory) job() {}
func (ScaleFile) job()      {}
func (CropDirectory) job()  {}
func (CropFile) job()       {}
func (SortDirectory) job()  {}

// Request is the raw command line input.
type Request struct {
	Path     string
	Scale    []int
	Crop     []int
	Sort     bool
	Override bool

	Offset        int64
	Strategy      pager.Strategy
	DryRun        bool
	Journal       string
	JournalFormat pager.Format
}

// Resolve picks the job for r. The path must exist; whether it is a file or
// a directory decides between the File and Directory variants.
func Resolve(r Request) (Job, error) {
	actions := 0
	for _, given := range []bool{len(r.Scale) > 0, len(r.Crop) > 0, r.Sort} {
		if given {
			actions++
		}
	}
	switch actions {
	case 0:
		return nil, ErrNoAction
	case 1:
	default:
		return nil, ErrTooManyActions
	}

	info, err := os.Stat(r.Path)
	if err != nil {
		return nil, &pager.PathError{Op: "stat", Path: r.Path, Err: err}
	}
	isDir := info.IsDir()

	if r.Sort {
		if !isDir {
			return nil, fmt.Errorf("%w: %s", ErrSortNeedsDir, r.Path)
		}
		return SortDirectory{
			Dir:           r.Path,
			Offset:        r.Offset,
			Strategy:      r.Strategy,
			DryRun:        r.DryRun,
			Journal:       r.Journal,
			JournalFormat: r.JournalFormat,
		}, nil
	}

	values, crop := r.Scale, false
	if len(r.Crop) > 0 {
		values, crop = r.Crop, true
	}
	size, err := imageio.ParseSize(values)
	if err != nil {
		return nil, err
	}

	switch {
	case crop && isDir:
		return CropDirectory{Dir: r.Path, Size: size, Override: r.Override}, nil
	case crop:
		return CropFile{Path: r.Path, Size: size, Override: r.Override}, nil
	case isDir:
		return ScaleDirectory{Dir: r.Path, Size: size, Override: r.Override}, nil
	default:
		return ScaleFile{Path: r.Path, Size: size, Override: r.Override}, nil
	}
}
