package pager

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DefaultOffset is added to every extracted key when renumbering.
const DefaultOffset = 3

// RenameOp renames Dir/From to Dir/To.
type RenameOp struct {
	Dir  string
	From string
	To   string
	Key  OrderKey
}

func (op RenameOp) Source() string { return filepath.Join(op.Dir, op.From) }
func (op RenameOp) Target() string { return filepath.Join(op.Dir, op.To) }

// Skip is a file left alone by a plan.
type Skip struct {
	Path   string
	Reason string
	Target string `json:",omitempty" msgpack:",omitempty"`
}

// RenamePlan is the complete set of renames for a run, computed before any
// file is touched.
type RenamePlan struct {
	Ops     []RenameOp
	Skipped []Skip
}

// RenameReport is the outcome of applying a plan.
type RenameReport struct {
	Renamed []RenameOp
	Failed  []*RenameError
}

// PlanRenames proposes <key+offset>.jpg for every image in dirs. A file is
// skipped when its target is already a name in its directory or was claimed
// earlier in the same pass. Files are visited in walk order, so the same
// directory state always yields the same plan.
func PlanRenames(dirs []DirContents, strategy Strategy, offset int64) RenamePlan {
	var plan RenamePlan
	for _, dir := range dirs {
		existing := make(map[string]bool, len(dir.Names))
		for _, name := range dir.Names {
			existing[name] = true
		}
		assigned := map[string]bool{}

		for _, file := range dir.Files {
			name := file.Name()
			key, ok := strategy.Key(name)
			if !ok {
				plan.Skipped = append(plan.Skipped, Skip{Path: file.Path, Reason: NoOrderKey})
				continue
			}
			shifted, ok := shift(key, offset)
			if !ok {
				plan.Skipped = append(plan.Skipped, Skip{Path: file.Path, Reason: KeyOutOfRange})
				continue
			}
			target := fmt.Sprintf("%d.jpg", shifted)
			if existing[target] || assigned[target] {
				plan.Skipped = append(plan.Skipped, Skip{Path: file.Path, Reason: Collision, Target: target})
				continue
			}
			assigned[target] = true
			plan.Ops = append(plan.Ops, RenameOp{Dir: dir.Dir, From: name, To: target, Key: key})
		}
	}
	return plan
}

// shift adds offset to key, reporting false when the sum overflows int64.
func shift(key OrderKey, offset int64) (int64, bool) {
	k := int64(key)
	if (offset > 0 && k > math.MaxInt64-offset) || (offset < 0 && k < math.MinInt64-offset) {
		return 0, false
	}
	return k + offset, true
}

// ApplyRenames performs the renames in plan order. A failed rename is
// recorded and the rest of the plan still runs. A target that exists on disk
// is never overwritten.
func ApplyRenames(plan RenamePlan, logger *logrus.Logger) RenameReport {
	var report RenameReport
	for _, op := range plan.Ops {
		if err := rename(op.Source(), op.Target()); err != nil {
			logger.WithError(err).Warn("Rename failed, skipping")
			report.Failed = append(report.Failed, err)
			continue
		}
		logger.WithFields(logrus.Fields{"from": op.From, "to": op.To}).Info("Renamed")
		report.Renamed = append(report.Renamed, op)
	}
	return report
}

func rename(from, to string) *RenameError {
	if _, err := os.Lstat(to); err == nil {
		return &RenameError{From: from, To: to, Err: ErrTargetExists}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &RenameError{From: from, To: to, Err: err}
	}
	if err := os.Rename(from, to); err != nil {
		return &RenameError{From: from, To: to, Err: err}
	}
	return nil
}
