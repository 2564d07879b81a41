package main

import (
	"fmt"
	"os"
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "fractus check"
	default:
		return "fractus run"
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  fractus <file.fs>")
	fmt.Fprintln(os.Stderr, "  fractus run [target|file.fs] [--stdin file] [--dump] [--trace]")
	fmt.Fprintln(os.Stderr, "  fractus check [target|file.fs] [--scopes] [--trace]")
	fmt.Fprintln(os.Stderr, "  fractus tokens <file.fs>")
	fmt.Fprintln(os.Stderr, "  fractus repl")
	fmt.Fprintln(os.Stderr, "  fractus test [paths]")
	fmt.Fprintln(os.Stderr, "  fractus suites fetch")
	fmt.Fprintln(os.Stderr, "  fractus --version")
}
