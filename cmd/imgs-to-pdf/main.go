package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	pager "gitea.narnian.us/lordwelch/comic-pager"
	"gitea.narnian.us/lordwelch/comic-pager/document"
)

type Opts struct {
	dir            string
	output         string
	strategy       pager.Strategy
	warnDuplicates bool
	noValidate     bool
	configPath     string
	verbose        bool
	noProgress     bool
}

func main() {
	opts := Opts{strategy: pager.ConcatenatedDigits}
	cmd := &cobra.Command{
		Use:   "imgs-to-pdf -d <directory>",
		Short: "Assemble a directory of images into a PDF ordered by the numbers in their names",
		Long: `Every .png, .jpg and .jpeg under the directory becomes one page, sized to
the image, ordered by the number in its filename. Files without a number
are left out.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Flags(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.dir, "dir", "d", "", "Directory of the images")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (default <directory name>.pdf)")
	flags.Var(&opts.strategy, "strategy", "How digits in a filename become a page number (concatenated, first)")
	flags.BoolVar(&opts.warnDuplicates, "warn-duplicates", false, "Warn about adjacent pages with the same number that look identical")
	flags.BoolVar(&opts.noValidate, "no-validate", false, "Skip validating the written document")
	flags.StringVar(&opts.configPath, "config", "", "YAML file with default settings")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug output")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Hide the progress bar")
	_ = cmd.MarkFlagRequired("dir")

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
	if !flags.Changed("strategy") {
		opts.strategy = cfg.DocumentStrategy
	}
	if opts.output == "" {
		abs, err := filepath.Abs(opts.dir)
		if err != nil {
			return err
		}
		opts.output = filepath.Base(abs) + ".pdf"
	}
	logger.Debugf("%# v", pretty.Formatter(opts))

	entries, dropped, err := pager.Order(opts.dir, opts.strategy)
	if err != nil {
		var pathErr *pager.PathError
		if errors.As(err, &pathErr) {
			return fmt.Errorf("unable to read %s: %w", opts.dir, err)
		}
		return err
	}
	for _, d := range dropped {
		logger.WithField("file", d.Path).Debug(pager.NoOrderKey)
	}
	logger.Infof("Found %d pages, %d images without a page number", len(entries), len(dropped))

	assembler := document.NewAssembler(logger)
	assembler.DetectDuplicates = opts.warnDuplicates
	assembler.DuplicateDistance = cfg.DuplicateDistance
	assembler.Validate = !opts.noValidate
	if !opts.noProgress && !opts.verbose {
		assembler.Progress = os.Stderr
	}
	report, err := assembler.Assemble(entries, opts.output)
	if err != nil {
		return err
	}
	if report.Pages > 0 {
		logger.Infof("Output file at %s (%d pages, %d skipped)", report.Output, report.Pages, len(report.Skipped))
	}
	return nil
}
