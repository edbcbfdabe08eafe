package cmd

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"tisp/codegen"
	"tisp/common"
	"tisp/report"
)

// Compiler represents the global state of one build: the input path and the
// resolved build profile.  It owns the front-end invocation and the external
// tool pipeline that follows it.
type Compiler struct {
	inputPath string
	profile   *BuildProfile
}

// NewCompiler creates a new compiler for the given input file and profile.
func NewCompiler(inputPath string, profile *BuildProfile) *Compiler {
	return &Compiler{inputPath: inputPath, profile: profile}
}

// Compile runs the build: source to IR, then as much of the external tool
// pipeline as the output mode asks for.  All errors are fatal.
func (c *Compiler) Compile() {
	report.ReportCompileHeader(c.inputPath)

	src, err := os.ReadFile(c.inputPath)
	if err != nil {
		report.ReportFatal("cannot open %s", c.inputPath)
	}

	irText, err := codegen.Compile(filepath.Base(c.inputPath), string(src))
	if err != nil {
		report.ReportFatal(err.Error())
	}

	base := strings.TrimSuffix(c.inputPath, common.TispFileExt)
	output := c.profile.OutputPath
	if output == "" {
		output = base
	}

	llPath := base + ".ll"
	asmPath := base + ".s"
	objPath := base + ".o"

	writeOutputFile(llPath, irText)
	if c.profile.OutputMode == OutModeLLVM {
		report.ReportCompilationFinished(llPath)
		return
	}

	// run the static compiler on the IR module
	llcArgs := []string{"-O2", llPath}
	stageOutput := asmPath
	if c.profile.OutputMode == OutModeObj {
		llcArgs = append(llcArgs, "--filetype=obj", "-o", objPath)
		stageOutput = objPath
	} else {
		llcArgs = append(llcArgs, "-o", asmPath)
	}

	if err := runTool(c.profile.LLC, llcArgs...); err != nil {
		report.ReportFatal("llc failed:\n%s", err.Error())
	}

	if c.profile.OutputMode == OutModeASM || c.profile.OutputMode == OutModeObj {
		if !c.profile.Verbose {
			os.Remove(llPath)
		}

		report.ReportCompilationFinished(stageOutput)
		return
	}

	// link the executable through the C compiler driver
	if runtime.GOOS == "windows" {
		output += ".exe"
	}

	if err := runTool(c.profile.CC, asmPath, "-o", output); err != nil {
		report.ReportFatal("linking failed:\n%s", err.Error())
	}

	if !c.profile.Verbose {
		os.Remove(llPath)
		os.Remove(asmPath)
	}

	report.ReportCompilationFinished(output)
}

// -----------------------------------------------------------------------------

// defaultCC returns the default C compiler driver used for linking.
func defaultCC() string {
	if runtime.GOOS == "windows" {
		return "gcc"
	}

	return "clang"
}

// runTool runs an external tool and captures its stderr.  If the tool returns
// a non-zero status, its stderr is returned as the error; any other failure
// (eg. the tool was not found) is returned as is.
func runTool(name string, args ...string) error {
	tool := exec.Command(name, args...)
	stderrBuff := bytes.Buffer{}
	tool.Stderr = &stderrBuff

	if err := tool.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return errors.New(stderrBuff.String())
		}

		return err
	}

	return nil
}

// writeOutputFile is used to quickly write an output file for the compiler.
func writeOutputFile(fpath, content string) {
	file, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		report.ReportFatal("failed to open output file `%s`: %s", fpath, err.Error())
	}
	defer file.Close()

	if _, err = file.WriteString(content); err != nil {
		report.ReportFatal("failed to write output to file `%s`: %s", fpath, err.Error())
	}
}
