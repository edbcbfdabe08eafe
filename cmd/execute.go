package cmd

import (
	"os"

	"tisp/common"
	"tisp/repl"
	"tisp/report"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `tisp` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("tisp", "tisp compiles Tisp source files to native executables", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "verbose"})
	logLvlArg.SetDefaultValue("error")

	buildCmd := cli.AddSubcommand("build", "compile a source file", true)
	buildCmd.AddPrimaryArg("input-path", "the path to the source file to compile", true)
	buildCmd.AddStringArg("output", "o", "the output executable name", false)
	buildCmd.AddFlag("emit-ir", "ir", "emit LLVM IR only")
	buildCmd.AddFlag("emit-asm", "S", "emit assembly only")
	buildCmd.AddFlag("emit-obj", "c", "emit an object file only")
	buildCmd.AddFlag("verbose", "v", "preserve all intermediate files")

	cli.AddSubcommand("repl", "start the interactive IR explorer", false)
	cli.AddSubcommand("version", "print the Tisp version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult, result.Arguments["loglevel"].(string))
	case "repl":
		repl.Run()
	case "version":
		report.DisplayInfoMessage("Tisp Version", common.TispVersion)
	}
}

// execBuildCommand executes the build subcommand and handles all errors.
func execBuildCommand(result *olive.ArgParseResult, loglevel string) {
	report.InitReporter(report.LogLevelFromString(loglevel))

	// get the primary argument: the input path
	inputPath, _ := result.PrimaryArg()

	// load the build profile from `tisp.toml` if one exists
	profile, err := LoadProfile(inputPath)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// command-line flags override the profile
	if outArgVal, ok := result.Arguments["output"]; ok {
		profile.OutputPath = outArgVal.(string)
	}

	switch {
	case result.HasFlag("emit-ir"):
		profile.OutputMode = OutModeLLVM
	case result.HasFlag("emit-asm"):
		profile.OutputMode = OutModeASM
	case result.HasFlag("emit-obj"):
		profile.OutputMode = OutModeObj
	}

	if result.HasFlag("verbose") {
		profile.Verbose = true
	}

	// run the build
	c := NewCompiler(inputPath, profile)
	c.Compile()
}
