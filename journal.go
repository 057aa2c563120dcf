package pager

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack"
)

type Format int

const (
	Msgpack Format = iota + 1
	JSON

	CurrentJournalVersion int = 1
)

var formatNames = map[Format]string{
	JSON:    "json",
	Msgpack: "msgpack",
}

var formatValues = map[string]Format{
	"json":    JSON,
	"msgpack": Msgpack,
}

type Encoder func(any) ([]byte, error)
type Decoder func([]byte, interface{}) error

func (f Format) String() string {
	if name, known := formatNames[f]; known {
		return name
	}
	return "Unknown"
}

func (f *Format) Set(s string) error {
	if format, known := formatValues[strings.ToLower(s)]; known {
		*f = format
	} else {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return nil
}

// Type satisfies pflag.Value
func (f *Format) Type() string {
	return "format"
}

// Journal records the renames of one run so they can be undone.
type Journal struct {
	Version  int
	Created  time.Time
	Root     string
	Strategy string
	Offset   int64
	Renames  []RenameOp
}

// NewJournal records renamed with absolute directories so the journal can be
// undone from any working directory.
func NewJournal(root string, strategy Strategy, offset int64, renamed []RenameOp) *Journal {
	renames := make([]RenameOp, 0, len(renamed))
	for _, op := range renamed {
		op.Dir = absolute(op.Dir)
		renames = append(renames, op)
	}
	return &Journal{
		Version:  CurrentJournalVersion,
		Created:  time.Now(),
		Root:     absolute(root),
		Strategy: strategy.String(),
		Offset:   offset,
		Renames:  renames,
	}
}

// absolute returns path made absolute, or path unchanged when the working
// directory is unknown.
func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func encoderFor(format Format) (Encoder, error) {
	switch format {
	case Msgpack:
		return msgpack.Marshal, nil
	case JSON:
		return json.Marshal, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

func decoderFor(format Format) (Decoder, error) {
	switch format {
	case Msgpack:
		return msgpack.Unmarshal, nil
	case JSON:
		return json.Unmarshal, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// SaveJournal writes j to path, gzipped, in format.
func SaveJournal(j *Journal, path string, format Format) error {
	encoder, err := encoderFor(format)
	if err != nil {
		return err
	}
	encoded, err := encoder(j)
	if err != nil {
		return fmt.Errorf("failed to encode journal as %v: %w", format, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to save journal: %w", err)
	}
	gzw := gzip.NewWriter(f)
	if _, err = gzw.Write(encoded); err != nil {
		gzw.Close()
		f.Close()
		return fmt.Errorf("failed to write journal: %w", err)
	}
	if err = gzw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJournal reads a journal written by SaveJournal. Plain (not gzipped)
// files are accepted too. Msgpack is tried first, then JSON.
func LoadJournal(path string) (*Journal, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var buf io.Reader = f
	if gr, err := gzip.NewReader(buf); err == nil {
		buf = bufio.NewReader(gr)
	} else {
		_, _ = f.Seek(0, io.SeekStart)
	}
	data, err := io.ReadAll(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read journal %q: %w", path, err)
	}

	var errs []error
	for _, format := range []Format{Msgpack, JSON} {
		decode, _ := decoderFor(format)
		j := &Journal{}
		err = decode(data, j)
		if err == nil && j.Version > 0 {
			return j, format, nil
		}
		if err == nil {
			err = errors.New("missing journal version")
		}
		errs = append(errs, fmt.Errorf("%v: %w", format, err))
	}
	return nil, 0, fmt.Errorf("failed to decode journal %q: %w", path, errors.Join(errs...))
}

// UndoJournal reverses the renames in j, newest first. Failures are reported
// per file and do not stop the rest.
func UndoJournal(j *Journal, logger *logrus.Logger) (RenameReport, error) {
	if len(j.Renames) == 0 {
		return RenameReport{}, ErrNoJournal
	}
	plan := RenamePlan{Ops: make([]RenameOp, 0, len(j.Renames))}
	for _, op := range slices.Backward(j.Renames) {
		plan.Ops = append(plan.Ops, RenameOp{Dir: op.Dir, From: op.To, To: op.From, Key: op.Key})
	}
	return ApplyRenames(plan, logger), nil
}
