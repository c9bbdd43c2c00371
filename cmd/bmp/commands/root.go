// Package commands implements the bmp command line.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anas-shakeel/bmpfx/internal/cli/prompt"
	"github.com/anas-shakeel/bmpfx/internal/config"
	"github.com/anas-shakeel/bmpfx/internal/filters"
	"github.com/anas-shakeel/bmpfx/internal/pipeline"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootOptions holds the flags of the root (transform) command.
type rootOptions struct {
	cfgFile  string
	logLevel string

	verbose bool
	invert  bool
	rotate  int
	output  string
	filter  string

	brightness       float64
	brightnessMethod string
	contrast         float64

	strict  bool
	confirm bool

	// confirmer is swapped out in tests.
	confirmer prompt.Confirmer
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{confirmer: prompt.Confirm})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bmp [flags] <input.bmp>",
		Short: "Invert and filter 24-bit uncompressed bitmaps",
		Long: `bmp reads a 24-bit uncompressed bitmap, optionally inverts its colors,
applies a color filter and writes the result.

Filter codes are:
  0 = none
  1 = sepia
  2 = greyscale
Only one filter can be applied at a time. Inversion runs before the filter.`,
		Example: `  # Invert the image, rotate it by 90 (not implemented) and apply sepia
  bmp -i input.bmp -r90 -o output.bmp -f1

  # Greyscale with a verbose before/after dump
  bmp -v --filter greyscale input.bmp`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/bmp/config.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR")

	f := cmd.Flags()
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "dump headers and pixels before and after editing")
	f.BoolVarP(&opts.invert, "invert", "i", false, "invert the colors")
	f.IntVarP(&opts.rotate, "rotate", "r", 0, "rotate in orders of 90 degrees (not implemented)")
	f.StringVarP(&opts.output, "outputfile", "o", config.DefaultOutput, "output file")
	f.StringVarP(&opts.filter, "filter", "f", "none", "filter to apply: none|sepia|greyscale or 0|1|2")
	f.Float64Var(&opts.brightness, "brightness", 0, "brightness adjustment (0 = off)")
	f.StringVar(&opts.brightnessMethod, "brightness-method", "add", "brightness method: add|multiply")
	f.Float64Var(&opts.contrast, "contrast", 0, "contrast factor (0 or 1 = off)")
	f.BoolVar(&opts.strict, "strict", false, "reject bitmaps that are not single-plane, 24-bit and uncompressed")
	f.BoolVar(&opts.confirm, "confirm", false, "ask before overwriting an existing output file")

	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if opts.verbose {
		level = "DEBUG"
	}
	if err := initLogger(cmd, cfg, level); err != nil {
		return err
	}

	flags := cmd.Flags()

	output := cfg.Output
	if flags.Changed("outputfile") {
		output = opts.output
	}

	filterName := cfg.Filter
	if flags.Changed("filter") {
		filterName = opts.filter
	}
	filter, err := filters.ParseFilter(filterName)
	if err != nil {
		return err
	}

	strict := cfg.Strict
	if flags.Changed("strict") {
		strict = opts.strict
	}

	if opts.confirm {
		if ok, err := confirmOverwrite(opts.confirmer, output); err != nil {
			return err
		} else if !ok {
			return errors.New("output not overwritten")
		}
	}

	res, err := pipeline.Run(pipeline.Options{
		Input:            args[0],
		Output:           output,
		Invert:           opts.invert,
		Filter:           filter,
		Rotate:           opts.rotate,
		Brightness:       opts.brightness,
		BrightnessMethod: opts.brightnessMethod,
		Contrast:         opts.contrast,
		Strict:           strict,
		MaxPixelBytes:    cfg.MaxImageSize.Uint64(),
		Verbose:          opts.verbose,
		Dump:             cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	if opts.verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pixel bytes)\n", res.Output, len(res.Bitmap.Pixels))
	}
	return nil
}

// confirmOverwrite returns true when path does not exist or the user agrees to replace it.
func confirmOverwrite(confirm prompt.Confirmer, path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return true, nil
	}
	ok, err := confirm(fmt.Sprintf("Overwrite %s?", path), false)
	if prompt.IsAborted(err) {
		return false, nil
	}
	return ok, err
}
