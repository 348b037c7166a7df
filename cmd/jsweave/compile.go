package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jsweave/internal/observ"
	"jsweave/internal/project"
	"jsweave/internal/transform"
)

const noManifestMessage = "no input files given and no " + project.ManifestName + " found; pass files or run `jsweave init`"

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [file.js...]",
	Short: "Compile module units into one file",
	Long: `Compile registers every file as a unit, in argument order, loads each unit
with its dependencies and prints the combined result. Without file arguments
the units come from the nearest ` + project.ManifestName + `.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("modules", string(transform.ModeRegister), "module format (register|inline|instantiate|commonjs|amd|parse)")
	compileCmd.Flags().Bool("source-map", false, "write <out>.map next to the output")
	compileCmd.Flags().Bool("script", false, "load every unit as a script")
	compileCmd.Flags().String("referrer", "", "referrer name for resolving unit names")
	compileCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	compileCmd.Flags().Int("jobs", 0, "max parallel dependency loads (0=auto)")
	compileCmd.Flags().String("manifest", "", "path to "+project.ManifestName)
	addDiagFormatFlag(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	var manifest *project.Manifest
	cfg := project.DefaultConfig()
	if len(args) == 0 {
		manifest, err = findManifest(cmd)
		if err != nil {
			return err
		}
		cfg = manifest.Config()
		logger.Debug("using manifest", "path", manifest.Path, "files", len(manifest.Files))
	}
	if err := applyCompileFlags(cmd, &cfg); err != nil {
		return err
	}
	if out != "" && (manifest == nil || manifest.Compile.Output == "") {
		cfg.OutputName = filepath.Base(out)
	}
	if cfg.SourceMap && out == "" {
		return errors.New("--source-map requires --out")
	}

	opts := []project.Option{project.WithLogger(logger)}
	var timer *observ.Timer
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		timer = observ.NewTimer()
		opts = append(opts, project.WithTimer(timer))
	}
	p := project.New(cfg, opts...)

	if manifest != nil {
		if err := manifest.AddTo(p); err != nil {
			return err
		}
	} else {
		for _, path := range args {
			content, err := os.ReadFile(path) // #nosec G304 -- path is a CLI argument
			if err != nil {
				return err
			}
			if err := p.AddFile(string(content), filepath.ToSlash(filepath.Clean(path))); err != nil {
				return err
			}
		}
	}

	res, err := p.Compile(cmd.Context())
	if err != nil {
		var ce *project.CompileError
		if errors.As(err, &ce) {
			if perr := printDiagnostics(cmd, ce.Diagnostics, ce.Files); perr != nil {
				return perr
			}
		}
		return err
	}
	if err := printDiagnostics(cmd, res.Errors, res.Files); err != nil {
		return err
	}
	if timer != nil {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if out == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), res.JS)
		return err
	}
	return writeOutput(out, res.JS, res.SourceMap)
}

func findManifest(cmd *cobra.Command) (*project.Manifest, error) {
	path, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, err
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, ok, err := project.FindManifest(wd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(noManifestMessage)
		}
		path = found
	}
	return project.LoadManifest(path)
}

// applyCompileFlags переопределяет настройки манифеста явно заданными флагами.
func applyCompileFlags(cmd *cobra.Command, cfg *project.Config) error {
	flags := cmd.Flags()
	if flags.Changed("modules") {
		value, _ := flags.GetString("modules")
		mode, err := transform.ParseMode(value)
		if err != nil {
			return err
		}
		cfg.Modules = mode
	}
	if flags.Changed("source-map") {
		cfg.SourceMap, _ = flags.GetBool("source-map")
	}
	if flags.Changed("script") {
		cfg.Script, _ = flags.GetBool("script")
	}
	if flags.Changed("referrer") {
		cfg.ReferrerName, _ = flags.GetString("referrer")
	}
	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}
	return nil
}

// writeOutput пишет результат и, если есть, карту рядом: <out>.map.
func writeOutput(out, js string, sourceMap *string) error {
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if sourceMap != nil {
		mapPath := out + ".map"
		if err := os.WriteFile(mapPath, []byte(*sourceMap), 0o600); err != nil {
			return err
		}
		js += "//# sourceMappingURL=" + filepath.Base(mapPath) + "\n"
	}
	return os.WriteFile(out, []byte(js), 0o600)
}
