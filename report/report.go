package report

import (
	"fmt"
	"os"
	"time"
)

// reporter is responsible for reporting errors and other kinds of messages to
// the user during program execution.  It respects the set log level.
type reporter struct {
	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The time compilation began, used for the concluding message.
	startTime time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user.
)

// rep is the global reporter instance.
var rep = reporter{logLevel: LogLevelError}

// InitReporter initializes the global reporter with the provided log level.
func InitReporter(logLevel int) {
	rep = reporter{logLevel: logLevel, startTime: time.Now()}
}

// LogLevelFromString converts a CLI log level selector value into one of the
// enumerated log levels.
func LogLevelFromString(s string) int {
	switch s {
	case "silent":
		return LogLevelSilent
	case "verbose":
		return LogLevelVerbose
	default:
		return LogLevelError
	}
}

// -----------------------------------------------------------------------------

// ReportFatal reports a fatal error and exits the program with a non-zero
// status.  All compiler errors funnel through here: the output is a line of
// the form `error: <message>` written to stderr, unless the log level is
// silent.  A message that itself spans several lines (eg. the captured stderr
// of a failed external tool) is written as is.
func ReportFatal(msg string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		fmt.Fprintf(os.Stderr, "error: %s\n", fmt.Sprintf(msg, args...))
	}

	os.Exit(1)
}

// DisplayInfoMessage displays a tagged informational message to the user.
// This displays regardless of log level: it is used for output the user asked
// for directly (eg. the version subcommand).
func DisplayInfoMessage(tag, msg string) {
	displayInfoMessage(tag, msg)
}

// ReportCompileHeader reports the pre-compilation header: information about
// the compiler's current configuration.  Only displayed at the verbose log
// level.
func ReportCompileHeader(inputPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompileHeader(inputPath)
	}
}

// ReportCompilationFinished reports the concluding message for compilation:
// the output path and the time compilation took.  Only displayed at the
// verbose log level.
func ReportCompilationFinished(outputPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompilationFinished(outputPath, time.Since(rep.startTime))
	}
}
