package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fractus/interpreter-go/pkg/ast"
	"fractus/interpreter-go/pkg/driver"
	"fractus/interpreter-go/pkg/runtime"
	"fractus/interpreter-go/pkg/semantic"
)

type executionMode int

const (
	modeRun executionMode = iota
	modeCheck
)

type entryOptions struct {
	stdinPath string
	dump      bool
	trace     bool
	scopes    bool
	args      []string
}

func parseEntryOptions(args []string, mode executionMode) (entryOptions, error) {
	var opts entryOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--trace":
			opts.trace = true
		case arg == "--dump" && mode == modeRun:
			opts.dump = true
		case arg == "--scopes" && mode == modeCheck:
			opts.scopes = true
		case arg == "--stdin" && mode == modeRun:
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--stdin expects a file")
			}
			opts.stdinPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--stdin=") && mode == modeRun:
			opts.stdinPath = strings.TrimPrefix(arg, "--stdin=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown flag %s", arg)
		default:
			opts.args = append(opts.args, arg)
		}
	}
	if len(opts.args) > 1 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(opts.args[1:], " "))
	}
	return opts, nil
}

// entryTarget is the program selected from the command line: a manifest
// target or a direct source path.
type entryTarget struct {
	path      string
	stdinPath string
}

func runEntry(args []string, mode executionMode) int {
	label := modeCommandLabel(mode)
	opts, err := parseEntryOptions(args, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	target, err := resolveEntryTarget(opts.args, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if opts.stdinPath != "" {
		target.stdinPath = opts.stdinPath
	}

	var checkOpts []semantic.Option
	if opts.trace {
		checkOpts = append(checkOpts, semantic.WithTrace(os.Stderr))
	}
	prog, err := driver.Check(target.path, checkOpts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, driver.FormatDiagnostic(target.path, err))
		return 1
	}

	if mode == modeCheck {
		if opts.scopes {
			printScopes(os.Stdout, prog.Prototypes)
		}
		fmt.Fprintf(os.Stdout, "ok: %s\n", target.path)
		return 0
	}
	return executeProgram(prog, target.stdinPath, opts.dump, os.Stdout, os.Stderr)
}

func resolveEntryTarget(args []string, mode executionMode) (entryTarget, error) {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		switch {
		case errors.Is(err, driver.ErrManifestNotFound):
			manifest = nil
		case len(args) == 1 && looksLikePathCandidate(args[0]):
			fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
			manifest = nil
		default:
			return entryTarget{}, fmt.Errorf("failed to load manifest: %w", err)
		}
	}

	if len(args) == 0 {
		if manifest == nil {
			return entryTarget{}, fmt.Errorf("%s requires a manifest target or source file (%s not found)", modeCommandLabel(mode), driver.ManifestFileName)
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			return entryTarget{}, fmt.Errorf("manifest error: %w", err)
		}
		return targetEntry(manifest, target), nil
	}

	candidate := args[0]
	if manifest != nil {
		if target, ok := manifest.FindTarget(candidate); ok {
			return targetEntry(manifest, target), nil
		}
	}
	return entryTarget{path: candidate}, nil
}

func targetEntry(manifest *driver.Manifest, target *driver.TargetSpec) entryTarget {
	entry := entryTarget{path: manifest.Resolve(target.Main)}
	if target.Stdin != "" {
		entry.stdinPath = manifest.Resolve(target.Stdin)
	}
	return entry
}

func executeProgram(prog *driver.Program, stdinPath string, dump bool, stdout, stderr io.Writer) int {
	var stdin io.Reader = os.Stdin
	if stdinPath != "" {
		file, err := os.Open(stdinPath)
		if err != nil {
			fmt.Fprintf(stderr, "failed to open stdin file: %v\n", err)
			return 1
		}
		defer file.Close()
		stdin = file
	}

	interp, err := driver.Run(prog, stdout, stdin)
	if dump {
		dumpGlobals(stdout, prog.AST, interp.Global())
	}
	if err != nil {
		fmt.Fprintln(stderr, driver.FormatDiagnostic(prog.Path, err))
		return 1
	}
	return 0
}

// dumpGlobals prints the program's declared globals in declaration order.
func dumpGlobals(w io.Writer, prog *ast.Program, global *runtime.Frame) {
	fmt.Fprintf(w, "program %s\n", prog.Name)
	if global == nil || prog.Block == nil {
		return
	}
	for _, decl := range prog.Block.Variables {
		val, err := global.Get(decl.Name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "  %s: %s = %s\n", decl.Name, decl.Type.Name, runtime.Format(val))
	}
}

// printScopes writes the global scope first, then procedure scopes by name.
func printScopes(w io.Writer, protos semantic.Prototypes) {
	if global := protos.Global(); global != nil {
		fmt.Fprint(w, global.String())
	}
	names := make([]string, 0, len(protos))
	for name := range protos {
		if name != semantic.GlobalScopeName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprint(w, protos[name].String())
	}
}

func runTokens(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "fractus tokens requires exactly one source file")
		return 1
	}
	toks, err := driver.Tokens(args[0])
	for _, tok := range toks {
		fmt.Fprintln(os.Stdout, tok.String())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, driver.FormatDiagnostic(args[0], err))
		return 1
	}
	return 0
}
