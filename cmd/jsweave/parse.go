package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jsweave/internal/diagfmt"
	"jsweave/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.js",
	Short: "Show the import/export structure of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().Bool("script", false, "parse as a script")
	addDiagFormatFlag(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	script, _ := cmd.Flags().GetBool("script")

	result, err := driver.Parse(args[0], script)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Sink.Errors(), result.FileSet); err != nil {
		return err
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatProgramPretty(os.Stdout, result.Program, result.FileSet)
	case "json":
		err = diagfmt.FormatProgramJSON(os.Stdout, result.Program, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Sink.HadError() {
		return errors.New("parse failed with errors")
	}
	return nil
}
