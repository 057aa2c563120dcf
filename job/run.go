package job

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	pager "gitea.narnian.us/lordwelch/comic-pager"
	"gitea.narnian.us/lordwelch/comic-pager/imageio"
)

// Runner executes jobs.
type Runner struct {
	Logger  *logrus.Logger
	Config  pager.Config
	Decoder imageio.Decoder
	// Progress receives a progress bar for scale and crop runs, nil disables it.
	Progress io.Writer

	filter imaging.ResampleFilter
}

func NewRunner(logger *logrus.Logger, cfg pager.Config) (*Runner, error) {
	filter, err := imageio.Filter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	return &Runner{
		Logger:  logger,
		Config:  cfg,
		Decoder: imageio.FileDecoder{},
		filter:  filter,
	}, nil
}

// Report is the outcome of a job. Per-file failures land in Failed; they
// never abort the job.
type Report struct {
	Written []string
	Failed  []error
	Plan    pager.RenamePlan
	Renames pager.RenameReport
}

type transform func(img image.Image, size imageio.Size) (*image.NRGBA, error)

// operation is a scale or a crop.
type operation struct {
	verb   string
	outDir string // directory created beside the sources
	crop   bool
	apply  transform
}

func (r *Runner) scaling() operation {
	return operation{verb: "Scaled", outDir: r.Config.ScaledDir, apply: r.scale}
}

func (r *Runner) cropping() operation {
	return operation{verb: "Cropped", outDir: r.Config.CroppedDir, crop: true, apply: imageio.Crop}
}

// Run executes j. Only failures that stop the whole job are returned as an
// error.
func (r *Runner) Run(j Job) (Report, error) {
	switch j := j.(type) {
	case ScaleDirectory:
		return r.directory(j.Dir, j.Size, j.Override, r.scaling())
	case ScaleFile:
		return r.file(j.Path, j.Size, j.Override, r.scaling())
	case CropDirectory:
		return r.directory(j.Dir, j.Size, j.Override, r.cropping())
	case CropFile:
		return r.file(j.Path, j.Size, j.Override, r.cropping())
	case SortDirectory:
		return r.sort(j)
	default:
		return Report{}, fmt.Errorf("unknown job %T", j)
	}
}

func (r *Runner) scale(img image.Image, size imageio.Size) (*image.NRGBA, error) {
	return imageio.Scale(img, size, r.filter)
}

func (r *Runner) directory(dir string, size imageio.Size, override bool, op operation) (Report, error) {
	var report Report
	outDir := filepath.Join(dir, op.outDir)
	files, err := pager.Walk(dir, outDir)
	if err != nil {
		return report, err
	}
	r.Logger.WithFields(logrus.Fields{"dir": dir, "images": len(files), "size": size}).Info(op.verb + " directory")

	bar := r.progress(len(files), op.verb)
	for _, file := range files {
		rel, err := filepath.Rel(dir, file.Path)
		if err != nil {
			rel = file.Name()
		}
		r.one(&report, file.Path, op.output(file.Path, rel, outDir, override), size, op)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return report, nil
}

func (r *Runner) file(path string, size imageio.Size, override bool, op operation) (Report, error) {
	var report Report
	if !pager.Supported(filepath.Ext(path)) {
		return report, fmt.Errorf("unsupported image type: %s", path)
	}
	outDir := filepath.Join(filepath.Dir(path), op.outDir)
	r.one(&report, path, op.output(path, filepath.Base(path), outDir, override), size, op)
	return report, nil
}

// output names the file written for src, rel being src relative to the
// directory being processed. Scaled images are always JPEG; cropped images
// keep their extension and gain a "-scaled" suffix. With override the result
// goes next to (or over) the source.
func (op operation) output(src, rel, outDir string, override bool) string {
	ext := filepath.Ext(src)
	if !op.crop {
		if override {
			return strings.TrimSuffix(src, ext) + ".jpg"
		}
		return filepath.Join(outDir, strings.TrimSuffix(rel, ext)+".jpg")
	}
	if override {
		return src
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, ext)+"-scaled"+ext)
}

func (r *Runner) one(report *Report, src, dst string, size imageio.Size, op operation) {
	log := r.Logger.WithField("file", src)
	img, err := r.Decoder.Open(src)
	if err != nil {
		log.WithError(err).Warn("Skipping image")
		report.Failed = append(report.Failed, err)
		return
	}
	out, err := op.apply(img.Pixels, size)
	if err != nil {
		err = fmt.Errorf("%s: %w", src, err)
		log.WithError(err).Warn("Skipping image")
		report.Failed = append(report.Failed, err)
		return
	}
	if err = imageio.Save(out, dst, imageio.SaveOptions{JPEGQuality: r.Config.JPEGQuality}); err != nil {
		log.WithError(err).Warn("Skipping image")
		report.Failed = append(report.Failed, err)
		return
	}
	log.WithField("output", dst).Debug(op.verb)
	report.Written = append(report.Written, dst)
}

func (r *Runner) sort(j SortDirectory) (Report, error) {
	var report Report
	dirs, err := pager.WalkDirs(j.Dir)
	if err != nil {
		return report, err
	}
	report.Plan = pager.PlanRenames(dirs, j.Strategy, j.Offset)
	for _, skip := range report.Plan.Skipped {
		log := r.Logger.WithField("file", skip.Path)
		if skip.Reason == pager.NoOrderKey {
			log.Debug("No order key, skipping")
			continue
		}
		log.WithField("to", skip.Target).Info("Name taken, skipping")
	}

	if j.DryRun {
		for _, op := range report.Plan.Ops {
			r.Logger.WithFields(logrus.Fields{"dir": op.Dir, "from": op.From, "to": op.To}).Info("Would rename")
		}
		return report, nil
	}

	report.Renames = pager.ApplyRenames(report.Plan, r.Logger)
	for _, failed := range report.Renames.Failed {
		report.Failed = append(report.Failed, failed)
	}
	if j.Journal != "" && len(report.Renames.Renamed) > 0 {
		journal := pager.NewJournal(j.Dir, j.Strategy, j.Offset, report.Renames.Renamed)
		if err = pager.SaveJournal(journal, j.Journal, j.JournalFormat); err != nil {
			return report, fmt.Errorf("renames applied but journal not saved: %w", err)
		}
		r.Logger.WithField("journal", j.Journal).Info("Saved rename journal")
	}
	return report, nil
}

func (r *Runner) progress(total int, verb string) *progressbar.ProgressBar {
	if r.Progress == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.Progress),
		progressbar.OptionSetDescription(verb),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pic"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
	)
}
