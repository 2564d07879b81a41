package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"fractus/interpreter-go/pkg/driver"
	"fractus/interpreter-go/pkg/parser"
)

const (
	replBanner      = "fractus repl (" + cliToolVersion + "). Enter a program ending in '.'; :quit exits."
	replPrompt      = "fractus> "
	replContinue    = "   ...> "
	replHistoryFile = "repl_history"
	replSourceName  = "<repl>"
)

// linePrompter is the part of liner.State the REPL reads through.
type linePrompter interface {
	Prompt(prompt string) (string, error)
}

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "fractus repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	fmt.Fprintln(os.Stdout, replBanner)

	histPath := ""
	if home, err := resolveFractusHome(); err == nil {
		if err := os.MkdirAll(home, 0o755); err == nil {
			histPath = filepath.Join(home, replHistoryFile)
		}
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			ln.Close()
			os.Exit(130)
		}
	}()

	for {
		src, ok := readProgram(ln, replPrompt, replContinue)
		if !ok {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if replCommand(os.Stdout, trimmed) {
				return 0
			}
			continue
		}
		evalReplProgram(src, os.Stdout, os.Stderr, os.Stdin)
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readProgram collects lines until they parse as a whole program or fail
// for a reason other than running out of input. It reports false at EOF.
func readProgram(ln linePrompter, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(src) == "" {
			return src, true
		}
		_, perr := parser.ParseString(src)
		if perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// replCommand handles a colon command and reports whether the REPL should
// exit.
func replCommand(w io.Writer, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(w, "Enter a complete program, e.g. program p; begin print(\"hi\") end.")
		fmt.Fprintln(w, ":quit exits")
	default:
		fmt.Fprintln(w, "unknown command. Type :help or :quit.")
	}
	return false
}

// evalReplProgram checks and runs one program, printing diagnostics to
// stderr. It reports whether the program completed without error.
func evalReplProgram(src string, stdout, stderr io.Writer, stdin io.Reader) bool {
	prog, err := driver.CheckSource(replSourceName, strings.NewReader(src))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return false
	}
	if _, err := driver.Run(prog, stdout, stdin); err != nil {
		fmt.Fprintln(stderr, err)
		return false
	}
	return true
}
