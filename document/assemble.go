package document

import (
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"

	"gitea.narnian.us/lordwelch/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	pager "gitea.narnian.us/lordwelch/comic-pager"
	"gitea.narnian.us/lordwelch/comic-pager/imageio"
)

func init() {
	// pdfcpu would otherwise create a config directory in the user's home
	api.DisableConfigDir()
}

// Assembler turns ordered images into a document.
type Assembler struct {
	Logger    *logrus.Logger
	Decoder   imageio.Decoder
	NewWriter func(path string) Writer
	// Progress receives the progress bar, nil disables it.
	Progress io.Writer
	// DetectDuplicates compares adjacent pages that share an order key and
	// warns when their difference hashes are within DuplicateDistance bits.
	DetectDuplicates  bool
	DuplicateDistance int
	// Validate checks the finished file with pdfcpu.
	Validate bool
}

// Report describes an assembled document.
type Report struct {
	Output     string
	Pages      int
	Skipped    []error
	Duplicates [][2]string
}

func NewAssembler(logger *logrus.Logger) *Assembler {
	return &Assembler{
		Logger:            logger,
		Decoder:           imageio.FileDecoder{},
		NewWriter:         func(path string) Writer { return NewPDF(path) },
		DuplicateDistance: 4,
		Validate:          true,
	}
}

type previousPage struct {
	key  pager.OrderKey
	path string
	hash *goimagehash.ImageHash
}

// Assemble writes one page per entry, in order, to out. Images that fail to
// decode or prepare are skipped. When no page could be drawn nothing is
// written and no error is returned.
func (a *Assembler) Assemble(entries []pager.OrderedEntry, out string) (Report, error) {
	report := Report{Output: out}
	if len(entries) == 0 {
		a.Logger.Info("No images to assemble")
		return report, nil
	}

	tmp, err := os.MkdirTemp("", "comic-pager-")
	if err != nil {
		return report, err
	}
	defer os.RemoveAll(tmp)

	var (
		tl   pager.TimeLog
		prev *previousPage
		bar  = a.progress(len(entries))
	)
	tl.ResetTime()
	writer := a.NewWriter(out)

	for i, entry := range entries {
		if bar != nil {
			_ = bar.Add(1)
		}
		log := a.Logger.WithFields(logrus.Fields{"file": entry.Entry.Path, "key": entry.Key})

		img, err := a.Decoder.Open(entry.Entry.Path)
		if err != nil {
			log.WithError(err).Warn("Skipping page")
			report.Skipped = append(report.Skipped, err)
			continue
		}
		drawPath, err := a.prepare(img, tmp, i)
		if err != nil {
			log.WithError(err).Warn("Skipping page")
			report.Skipped = append(report.Skipped, err)
			continue
		}

		if a.DetectDuplicates {
			prev = a.checkDuplicate(prev, entry, img, &report)
		}

		w, h := float64(img.Width), float64(img.Height)
		if err = writer.SetPageSize(w, h); err != nil {
			return report, fmt.Errorf("failed to start page %d: %w", i+1, err)
		}
		// Writer errors end the document: gofpdf keeps the first error and
		// ignores every later call, so the page cannot be skipped.
		if err = writer.DrawFullPageImage(drawPath, w, h); err != nil {
			return report, err
		}
		if err = writer.CommitPage(); err != nil {
			return report, fmt.Errorf("failed to commit page %d: %w", i+1, err)
		}
		report.Pages++
		log.Debug("Added page")
	}
	if bar != nil {
		_ = bar.Finish()
	}
	tl.LogTime(a.Logger, "Pages drawn")

	if report.Pages == 0 {
		a.Logger.Warn("No readable images, document not written")
		return report, nil
	}
	if err = writer.Finalize(); err != nil {
		return report, err
	}
	tl.LogTime(a.Logger, "Document written")

	if a.Validate {
		if err = Validate(out, report.Pages); err != nil {
			return report, err
		}
		tl.LogTime(a.Logger, "Document validated")
	}
	return report, nil
}

// prepare returns the file the writer should embed for img. Files whose
// pixels were rotated by EXIF orientation, and all PNGs, are re-encoded to a
// plain 8-bit PNG in tmp so the embedded data matches the page size.
func (a *Assembler) prepare(img *imageio.Image, tmp string, index int) (string, error) {
	if !img.Rotated() && img.Format != imaging.PNG {
		return img.Path, nil
	}
	path := filepath.Join(tmp, fmt.Sprintf("%06d.png", index))
	if err := imageio.Save(img.Pixels, path, imageio.SaveOptions{}); err != nil {
		return "", err
	}
	return path, nil
}

func (a *Assembler) checkDuplicate(prev *previousPage, entry pager.OrderedEntry, img *imageio.Image, report *Report) *previousPage {
	hash, err := goimagehash.DifferenceHash(img.Pixels)
	if err != nil {
		a.Logger.WithError(err).WithField("file", entry.Entry.Path).Debug("Unable to hash page")
		return nil
	}
	current := &previousPage{key: entry.Key, path: entry.Entry.Path, hash: hash}
	if prev == nil || prev.key != entry.Key {
		return current
	}
	distance := bits.OnesCount64(prev.hash.GetHash() ^ hash.GetHash())
	if distance <= a.DuplicateDistance {
		a.Logger.WithFields(logrus.Fields{
			"first":    prev.path,
			"second":   entry.Entry.Path,
			"distance": distance,
		}).Warn("Pages look like duplicates")
		report.Duplicates = append(report.Duplicates, [2]string{prev.path, entry.Entry.Path})
	}
	return current
}

func (a *Assembler) progress(total int) *progressbar.ProgressBar {
	if a.Progress == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(a.Progress),
		progressbar.OptionSetDescription("Processed"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pic"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(a.Progress)
		}),
	)
}

// Validate checks path with pdfcpu and confirms it has the expected number
// of pages.
func Validate(path string, pages int) error {
	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("invalid document %s: %w", path, err)
	}
	count, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("unable to count pages of %s: %w", path, err)
	}
	if count != pages {
		return fmt.Errorf("document %s has %d pages, expected %d", path, count, pages)
	}
	return nil
}
