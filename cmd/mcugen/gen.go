package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcugen/internal/diag"
	"mcugen/internal/emit"
	"mcugen/internal/pipeline"
	_ "mcugen/internal/platform/armv7m"
)

var genCmd = &cobra.Command{
	Use:   "gen -i project.xml -o output_path -k rme_root -u rvm_root -f format",
	Short: "Generate a project tree from a project and chip description",
	Long: `Generate a complete, buildable project tree.

  -i: project description file name and path, with extension
  -o: output path, must exist and be empty
  -k: RME root path, must contain all necessary files
  -u: RVM root path, must contain all necessary files
  -f: output project format: keil, eclipse or makefile`,
	Args: cobra.NoArgs,
	RunE: genExecution,
}

func init() {
	genCmd.Flags().StringP("input", "i", "", "project description file")
	genCmd.Flags().StringP("output", "o", "", "output directory, must be empty")
	genCmd.Flags().StringP("kernel", "k", "", "RME source root")
	genCmd.Flags().StringP("user", "u", "", "RVM source root")
	genCmd.Flags().StringP("format", "f", "", "project format (keil|eclipse|makefile)")
}

func genExecution(cmd *cobra.Command, args []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	rmeRoot, err := cmd.Flags().GetString("kernel")
	if err != nil {
		return err
	}
	rvmRoot, err := cmd.Flags().GetString("user")
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	colorize := useColor(colorMode)

	// Defaults from mcugen.toml may stand in for -k, -u and -f only.
	if cfg, found, err := loadToolConfig("."); err != nil {
		return err
	} else if found {
		if rmeRoot == "" {
			rmeRoot = cfg.Defaults.RME
		}
		if rvmRoot == "" {
			rvmRoot = cfg.Defaults.RVM
		}
		if formatValue == "" {
			formatValue = cfg.Defaults.Format
		}
	}

	abort := func(d *diag.Diagnostic) error {
		diag.Render(os.Stderr, d, colorize)
		os.Exit(1)
		return nil
	}

	if d := checkArgs(input, output, rmeRoot, rvmRoot, formatValue); d != nil {
		return abort(d)
	}
	format, d := emit.ParseFormat(formatValue)
	if d != nil {
		return abort(d)
	}

	req := &pipeline.Request{
		ProjectPath: input,
		OutputPath:  output,
		RMEPath:     rmeRoot,
		RVMPath:     rvmRoot,
		Format:      format,
	}
	res, d := pipeline.Run(req)
	if d != nil {
		return abort(d)
	}

	if timings {
		printStageTimings(os.Stdout, res.Timings)
	}
	if !quiet {
		fmt.Print(emit.Summary(res.Proj, res.Caps))
	}
	return nil
}

// checkArgs validates the five required inputs the way the pipeline
// expects them: present paths, empty output, non-empty roots.
func checkArgs(input, output, rmeRoot, rvmRoot, format string) *diag.Diagnostic {
	if input == "" {
		return diag.Errorf(diag.CmdMissingArg, "", "no input file specified")
	}
	if output == "" {
		return diag.Errorf(diag.CmdMissingArg, "", "no output path specified")
	}
	if rmeRoot == "" {
		return diag.Errorf(diag.CmdMissingArg, "", "no RME root path specified")
	}
	if rvmRoot == "" {
		return diag.Errorf(diag.CmdMissingArg, "", "no RVM root path specified")
	}
	if format == "" {
		return diag.Errorf(diag.CmdMissingArg, "", "no output project format specified")
	}
	if info, err := os.Stat(input); err != nil || info.IsDir() {
		return diag.Errorf(diag.CmdFileUnreadable, "", "input file %s is not readable", input)
	}
	if d := checkDir(output, true); d != nil {
		return d
	}
	if d := checkDir(rmeRoot, false); d != nil {
		return d
	}
	return checkDir(rvmRoot, false)
}

// checkDir requires the directory to exist, and to be empty or non-empty
// as asked.
func checkDir(path string, wantEmpty bool) *diag.Diagnostic {
	entries, err := os.ReadDir(path)
	if err != nil {
		return diag.Errorf(diag.CmdDirMissing, "", "directory %s is not present", path)
	}
	if wantEmpty && len(entries) != 0 {
		return diag.Errorf(diag.CmdDirNotEmpty, "", "directory %s is not empty", path)
	}
	if !wantEmpty && len(entries) == 0 {
		return diag.Errorf(diag.CmdDirEmpty, "", "directory %s is empty, wrong path selected", path)
	}
	return nil
}
