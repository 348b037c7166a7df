package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsweave/internal/diag"
	"jsweave/internal/driver"
	"jsweave/internal/transform"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir]",
	Short: "Parse and lower every module in a directory without writing output",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("script", false, "check files as scripts")
	checkCmd.Flags().String("modules", string(transform.ModeRegister), "module format to check against")
	checkCmd.Flags().Int("jobs", 0, "max parallel files (0=auto)")
	addDiagFormatFlag(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	script, _ := cmd.Flags().GetBool("script")
	jobs, _ := cmd.Flags().GetInt("jobs")
	modeValue, _ := cmd.Flags().GetString("modules")
	mode, err := transform.ParseMode(modeValue)
	if err != nil {
		return err
	}

	fs, results, err := driver.CheckDir(cmd.Context(), dir, driver.CheckOptions{Jobs: jobs, Script: script, Mode: mode})
	if err != nil {
		return err
	}

	var all []diag.Diagnostic
	failed := 0
	for _, r := range results {
		all = append(all, r.Diagnostics...)
		if r.HadError {
			failed++
		}
	}
	if err := printDiagnostics(cmd, all, fs); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) have errors", failed, len(results))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s)\n", len(results))
	return nil
}
