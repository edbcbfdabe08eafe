// Package repl provides an interactive IR explorer for Tisp.
//
// It supports readline-style command editing.  Each input line is appended to
// the session source and the whole session is recompiled; the resulting IR
// module is printed.  Lines that fail to compile are reported and discarded,
// leaving the session intact.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"tisp/codegen"

	"github.com/chzyer/readline"
)

// Run executes a read, compile, print loop until EOF (Control-D).
func Run() {
	rl, err := readline.New(">>> ")
	if err != nil {
		printError(err)
		return
	}
	defer rl.Close()

	var session []string
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err != io.EOF {
				printError(err)
			}
			break
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		src := strings.Join(append(session, line), "\n")
		out, err := codegen.Compile("<repl>", src)
		if err != nil {
			printError(err)
			continue
		}

		session = append(session, line)
		fmt.Print(out)
	}

	fmt.Println()
}

// printError prints a compile or readline error to stderr.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
}
