package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	pager "gitea.narnian.us/lordwelch/comic-pager"
	"gitea.narnian.us/lordwelch/comic-pager/job"
)

type Opts struct {
	dir           string
	scale         []int
	crop          []int
	sort          bool
	override      bool
	offset        int64
	strategy      pager.Strategy
	dryRun        bool
	journal       string
	journalFormat pager.Format
	undo          string
	configPath    string
	verbose       bool
	noProgress    bool
}

func main() {
	opts := Opts{strategy: pager.FirstDigitRunOnly, journalFormat: pager.Msgpack, offset: pager.DefaultOffset}
	cmd := &cobra.Command{
		Use:   "scale-image -d <path> [-s <scale> | -c <crop> | --sort]",
		Short: "Scale, crop or renumber images",
		Long: `Scale or crop a directory (or a single file) of images by a percentage
or to a fixed resolution, or rename every image in a directory to
<number + offset>.jpg.

  -s 50           scale to 50%
  -s 1920,1080    scale to 1920x1080
  -c 2450,3800    keep the top left 2450x3800 pixels`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Flags(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.dir, "dir", "d", "", "Directory (or file) of the images")
	flags.IntSliceVarP(&opts.scale, "scale", "s", nil, "Scale percentage or resolution for resizing (1-99 or W,H)")
	flags.IntSliceVarP(&opts.crop, "crop", "c", nil, "Scale percentage or resolution for cropping (1-99 or W,H)")
	flags.BoolVar(&opts.sort, "sort", false, "Rename images to <number + offset>.jpg")
	flags.BoolVar(&opts.override, "override", false, "Write results over or beside the originals instead of into a sub-directory")
	flags.Int64Var(&opts.offset, "offset", opts.offset, "Number added to every page number when sorting")
	flags.Var(&opts.strategy, "strategy", "How digits in a filename become a page number when sorting (first, concatenated)")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Only print the renames --sort would make")
	flags.StringVar(&opts.journal, "journal", "", "Record applied renames in this file so they can be undone")
	flags.Var(&opts.journalFormat, "journal-format", "Format of the rename journal (msgpack, json)")
	flags.StringVar(&opts.undo, "undo", "", "Undo the renames recorded in this journal")
	flags.StringVar(&opts.configPath, "config", "", "YAML file with default settings")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug output")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Hide the progress bar")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet, opts Opts) error {
	logger := pager.NewLogger(os.Stdout, opts.verbose)
	cfg, err := pager.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	// the config file only fills in what was not given on the command line
	if !flags.Changed("offset") {
		opts.offset = cfg.Offset
	}
	if !flags.Changed("strategy") {
		opts.strategy = cfg.RenumberStrategy
	}
	logger.Debugf("%# v", pretty.Formatter(opts))
	logger.Debugf("%# v", pretty.Formatter(cfg))

	if opts.undo != "" {
		return undo(opts.undo, logger)
	}
	if opts.dir == "" {
		return errors.New(`required flag "dir" not set`)
	}

	j, err := job.Resolve(job.Request{
		Path:          opts.dir,
		Scale:         opts.scale,
		Crop:          opts.crop,
		Sort:          opts.sort,
		Override:      opts.override,
		Offset:        opts.offset,
		Strategy:      opts.strategy,
		DryRun:        opts.dryRun,
		Journal:       opts.journal,
		JournalFormat: opts.journalFormat,
	})
	if err != nil {
		return err
	}

	runner, err := job.NewRunner(logger, cfg)
	if err != nil {
		return err
	}
	if !opts.noProgress && !opts.verbose {
		runner.Progress = os.Stderr
	}
	report, err := runner.Run(j)
	if err != nil {
		return err
	}
	summarize(logger, j, report)
	return nil
}

func summarize(logger *logrus.Logger, j job.Job, report job.Report) {
	switch j.(type) {
	case job.SortDirectory:
		logger.Infof("Renamed %d, skipped %d, failed %d", len(report.Renames.Renamed), len(report.Plan.Skipped), len(report.Renames.Failed))
	default:
		logger.Infof("Wrote %d images, %d failed", len(report.Written), len(report.Failed))
	}
}

func undo(path string, logger *logrus.Logger) error {
	journal, format, err := pager.LoadJournal(path)
	if err != nil {
		return err
	}
	logger.WithField("format", format).Infof("Undoing %d renames in %s", len(journal.Renames), journal.Root)
	report, err := pager.UndoJournal(journal, logger)
	if err != nil {
		return err
	}
	logger.Infof("Restored %d, failed %d", len(report.Renamed), len(report.Failed))
	return nil
}
