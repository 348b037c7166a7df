package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"jsweave/internal/convert"
	"jsweave/internal/transform"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <in-dir> <out-dir>",
	Short: "Convert every module in a directory tree",
	Long: `Convert lowers each module under <in-dir> on its own and writes the result
to the same relative path under <out-dir>. A file that fails is reported and
skipped; the rest are still written.`,
	Args: exactArgsWithUsage(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("modules", string(transform.ModeAMD), "module format (register|inline|instantiate|commonjs|amd|parse)")
	convertCmd.Flags().StringSlice("include", []string{convert.DefaultInclude}, "glob patterns of files to convert")
	convertCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to skip")
	convertCmd.Flags().Bool("source-map", false, "write <file>.map next to every output")
	convertCmd.Flags().Int("jobs", 0, "max parallel conversions (0=auto)")
	convertCmd.Flags().Bool("progress", false, "show a progress bar")
	addDiagFormatFlag(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	modeValue, _ := flags.GetString("modules")
	mode, err := transform.ParseMode(modeValue)
	if err != nil {
		return err
	}
	include, _ := flags.GetStringSlice("include")
	exclude, _ := flags.GetStringSlice("exclude")
	sourceMap, _ := flags.GetBool("source-map")
	jobs, _ := flags.GetInt("jobs")
	showProgress, _ := flags.GetBool("progress")

	opts := convert.Options{
		Modules:   mode,
		Include:   include,
		Exclude:   exclude,
		SourceMap: sourceMap,
		Jobs:      jobs,
		Logger:    newLogger(cmd),
	}
	if showProgress {
		opts.Progress = newProgress(cmd)
	}

	report, err := convert.Run(cmd.Context(), args[0], args[1], opts)
	if err != nil {
		return err
	}
	for _, f := range report.Files {
		if len(f.Diagnostics) == 0 {
			continue
		}
		if err := printDiagnostics(cmd, f.Diagnostics, nil); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "converted %d file(s), %d failed\n", report.Converted, report.Failed)
	return report.Err()
}

// newProgress создаёт полосу лениво: total известен только после обхода.
func newProgress(cmd *cobra.Command) func(done, total int, path string) {
	var (
		bar *progressbar.ProgressBar
		mu  sync.Mutex
	)
	color := useColor(cmd, os.Stderr)
	return func(done, total int, path string) {
		mu.Lock()
		defer mu.Unlock()
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(color),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Converting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		_ = bar.Set(done)
	}
}
