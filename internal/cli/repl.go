// Package cli provides the interactive shell for minidb
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/vegasq/minidb/internal/config"
	"github.com/vegasq/minidb/internal/logger"
	"github.com/vegasq/minidb/internal/session"
	"github.com/vegasq/minidb/internal/testsuite"
	"github.com/vegasq/minidb/query"
	"github.com/vegasq/minidb/reader"
)

const (
	prompt             = "minidb> "
	continuationPrompt = "     -> "
)

// REPL implements the Read-Eval-Print Loop for minidb
type REPL struct {
	config *config.Config
	log    *logger.Logger
	sess   *session.Session
	out    io.Writer
	format string
	rl     *readline.Instance
}

// NewREPL creates a new REPL writing to stdout
func NewREPL(cfg *config.Config, log *logger.Logger, sess *session.Session) *REPL {
	return &REPL{
		config: cfg,
		log:    log,
		sess:   sess,
		out:    os.Stdout,
		format: strings.ToLower(cfg.Output.Format),
	}
}

// SessionOptions builds session options from the configuration
func SessionOptions(cfg *config.Config, log *logger.Logger) session.Options {
	return session.Options{
		Load: LoadOptions(cfg, log),
		Parse: query.ParseOptions{
			LongestOperatorMatch: cfg.Query.LongestOperatorMatch,
		},
		StrictColumns: cfg.Query.StrictColumns,
		Log:           log.Zap(),
	}
}

// LoadOptions builds loader options from the configuration
func LoadOptions(cfg *config.Config, log *logger.Logger) reader.Options {
	return reader.Options{
		Delimiter:  cfg.DelimiterRune(),
		SampleRows: cfg.Data.SampleRows,
		Log:        log.Zap(),
	}
}

// NewRunner builds a test-suite runner from the configuration
func NewRunner(cfg *config.Config, log *logger.Logger) *testsuite.Runner {
	return &testsuite.Runner{
		DataDir:       cfg.Data.Dir,
		Parallelism:   cfg.Tests.Parallelism,
		StrictColumns: cfg.Query.StrictColumns,
		Load:          LoadOptions(cfg, log),
		Parse:         query.ParseOptions{LongestOperatorMatch: cfg.Query.LongestOperatorMatch},
		Log:           log.Zap(),
	}
}

// Run starts the REPL loop
func (r *REPL) Run() error {
	rlConfig := &readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newCompleter(),
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer func() { _ = rl.Close() }()
	r.rl = rl
	r.out = rl.Stdout()

	r.printWelcome()

	var pending strings.Builder
	for {
		if pending.Len() > 0 {
			rl.SetPrompt(continuationPrompt)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if pending.Len() > 0 {
				pending.Reset()
				fmt.Fprintln(r.out, "^C")
			}
			continue
		} else if err == io.EOF {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pending.WriteString(line)
		input := pending.String()

		// backslash commands end at the line, SQL at a semicolon
		if !strings.HasPrefix(input, "\\") && !strings.HasSuffix(input, ";") {
			pending.WriteString(" ")
			continue
		}
		pending.Reset()

		if r.processCommand(strings.TrimSuffix(input, ";")) == commandExit {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}
	}
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, titleStyle.Render("minidb "+Version))
	fmt.Fprintln(r.out, mutedStyle.Render("In-memory SQL over CSV and Parquet files. Type \\? for help."))
	fmt.Fprintln(r.out)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".minidb_history")
}

// newCompleter creates an auto-completer for the REPL
func newCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("SELECT"),
		readline.PcItem("FROM"),
		readline.PcItem("WHERE"),
		readline.PcItem("ORDER BY"),
		readline.PcItem("LIKE"),
		readline.PcItem("\\load"),
		readline.PcItem("\\dt"),
		readline.PcItem("\\d"),
		readline.PcItem("\\use"),
		readline.PcItem("\\format",
			readline.PcItem("table"),
			readline.PcItem("csv"),
			readline.PcItem("json"),
			readline.PcItem("jsonl"),
		),
		readline.PcItem("\\export"),
		readline.PcItem("\\test"),
		readline.PcItem("\\ai"),
		readline.PcItem("\\gen"),
		readline.PcItem("\\explain"),
		readline.PcItem("\\optimize"),
		readline.PcItem("\\status"),
		readline.PcItem("\\config"),
		readline.PcItem("\\clear"),
		readline.PcItem("\\help"),
		readline.PcItem("\\q"),
	)
}
