package pager

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrNoJournal       = errors.New("no renames in journal")
	ErrTargetExists    = errors.New("target already exists")
)

// NoOrderKey is the Skip reason for files without digits in their name.
const NoOrderKey = "no order key"

// Collision is the Skip reason for files whose new name is already taken.
const Collision = "collision"

// KeyOutOfRange is the Skip reason for files whose key plus the offset does
// not fit in an int64.
const KeyOutOfRange = "key out of range"

// PathError reports a root that could not be walked. It is fatal for the
// whole walk.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// RenameError reports a single failed rename. The batch carries on.
type RenameError struct {
	From string
	To   string
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }
