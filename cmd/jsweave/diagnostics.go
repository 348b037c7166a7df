package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jsweave/internal/diag"
	"jsweave/internal/diagfmt"
	"jsweave/internal/source"
	"jsweave/internal/version"
)

const diagFormats = "pretty|json|msgpack|sarif"

func addDiagFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("diag-format", "pretty", "diagnostics format ("+diagFormats+")")
}

// printDiagnostics пишет диагностики в stderr в формате --diag-format.
func printDiagnostics(cmd *cobra.Command, diags []diag.Diagnostic, fs *source.FileSet) error {
	if len(diags) == 0 {
		return nil
	}
	format, err := cmd.Flags().GetString("diag-format")
	if err != nil {
		format = "pretty"
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return writeDiagnostics(os.Stderr, strings.ToLower(format), diags, fs, maxDiagnostics, useColor(cmd, os.Stderr), os.Args[1:])
}

func writeDiagnostics(w io.Writer, format string, diags []diag.Diagnostic, fs *source.FileSet, maxDiagnostics int, color bool, args []string) error {
	switch format {
	case "pretty":
		if maxDiagnostics > 0 && len(diags) > maxDiagnostics {
			diags = diags[:maxDiagnostics]
		}
		diagfmt.Pretty(w, diags, fs, diagfmt.PrettyOpts{Color: color, Context: 1})
		return nil
	case "json":
		return diagfmt.JSON(w, diags, diagfmt.JSONOpts{Max: maxDiagnostics})
	case "msgpack":
		return diagfmt.Msgpack(w, diags, diagfmt.JSONOpts{Max: maxDiagnostics})
	case "sarif":
		return diagfmt.Sarif(w, diags, diagfmt.SarifRunMeta{
			ToolName:       "jsweave",
			ToolVersion:    version.Version,
			InvocationArgs: args,
		})
	}
	return fmt.Errorf("unknown diagnostics format %q (must be %s)", format, diagFormats)
}
