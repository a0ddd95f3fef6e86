// Command quill runs Quill scripts and hosts the interactive REPL.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/quill-lang/quill"
)

const (
	historyFile = ".quill_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "The Quill scripting language",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(runCmd(), replCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file" + quill.SourceExt + ">",
		Short: "Run a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0])
		},
	}
}

func runFile(path string) error {
	source, err := quill.LoadSource(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	loader, err := newLoader(filepath.Dir(path))
	if err != nil {
		return err
	}

	ctx := quill.NewContext(loader)
	module := quill.NewModule(source)
	if err := ctx.Eval(module, quill.NewVM()); err != nil {
		quill.PrintDiagnostic(err, source)
		os.Exit(1)
	}
	return nil
}

// newLoader resolves the project configuration around dir and builds
// the filesystem loader with the right deps root.
func newLoader(dir string) (quill.ModuleLoader, error) {
	projectDir := quill.FindProjectRoot(dir)
	if projectDir == "" {
		projectDir = dir
	}
	cfg, err := quill.LoadConfigFromDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}
	depsRoot := cfg.DepsRoot(projectDir)
	slog.Debug("project resolved", "dir", projectDir, "deps", depsRoot)
	return quill.NewFsLoader(depsRoot), nil
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}

func runRepl() error {
	fmt.Println("Quill REPL")
	fmt.Println("Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	cwd, _ := os.Getwd()
	loader, err := newLoader(cwd)
	if err != nil {
		return err
	}
	session := quill.NewSession(loader)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return nil
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		val, display, err := session.Eval(code)
		if err != nil {
			quill.PrintDiagnostic(err, session.Module().Source())
			continue
		}
		if display {
			fmt.Println(val)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readInput reads one snippet, continuing onto extra lines while the
// input has more opening braces than closing ones.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
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

		if braceBalance(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

func braceBalance(code string) int {
	depth := 0
	inStr := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		if inStr {
			if c == '\\' {
				i++
			} else if c == '"' {
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}
