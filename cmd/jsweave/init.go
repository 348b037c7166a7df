package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jsweave/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a " + project.ManifestName + " in a directory",
	Long: `Initialize a jsweave project by creating a manifest (` + project.ManifestName + `)
that compiles src/**/*.js, plus a src/main.js entry when none exists.
If [path] does not exist, it is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "src", "main.js")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(mainPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(mainPath, []byte(defaultMainJS), 0o600); err != nil {
			return fmt.Errorf("failed to write main.js: %w", err)
		}
		createdMain = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized jsweave project in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintln(out, "  - src/main.js")
	}
	return nil
}

const defaultManifest = `# jsweave project manifest
[compile]
modules = "register"
source_map = false

[[file]]
glob = "src/**/*.js"
`

const defaultMainJS = `export function hello() {
  return "Hello, jsweave!";
}
`
