package report

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// displayInfoMessage displays a tagged informational message to the console.
func displayInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// displayCompileHeader displays the banner printed before compilation begins.
func displayCompileHeader(inputPath string) {
	displayInfoMessage("Compiling", inputPath)
}

// displayCompilationFinished displays the concluding message of compilation.
func displayCompilationFinished(outputPath string, elapsed time.Duration) {
	displayInfoMessage("Finished", fmt.Sprintf("%s (%.3fs)", outputPath, elapsed.Seconds()))
}
