package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/minidb/internal/assist"
	"github.com/vegasq/minidb/internal/testsuite"
	"github.com/vegasq/minidb/output"
	"github.com/vegasq/minidb/query"
	"github.com/vegasq/minidb/reader"
	"github.com/vegasq/minidb/table"
)

type commandResult int

const (
	commandOK commandResult = iota
	commandExit
	commandError
)

func (r *REPL) processCommand(input string) commandResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return commandOK
	}

	if strings.HasPrefix(input, "\\") {
		return r.handleBackslashCommand(input)
	}

	switch strings.ToUpper(input) {
	case "EXIT", "QUIT":
		return commandExit
	case "HELP":
		r.printHelp()
		return commandOK
	}

	return r.runStatement(input)
}

// runStatement executes a SQL statement and prints its result
func (r *REPL) runStatement(stmt string) commandResult {
	result, err := r.sess.Execute(stmt)
	if err != nil {
		r.printError("Query failed: %v", err)
		return commandError
	}

	f, err := output.NewFormatter(r.format, r.out, r.config.Output.MaxRows)
	if err != nil {
		r.printError("%v", err)
		return commandError
	}
	if err := output.PrintResult(r.out, result, f); err != nil {
		r.printError("%v", err)
		return commandError
	}
	if !result.Success {
		return commandError
	}
	return commandOK
}

func (r *REPL) handleBackslashCommand(input string) commandResult {
	cmd, arg, _ := strings.Cut(input, " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "\\q", "\\quit", "\\exit":
		return commandExit

	case "\\?", "\\help":
		r.printHelp()
		return commandOK

	case "\\load":
		return r.loadTable(arg)

	case "\\dt", "\\tables":
		r.listTables()
		return commandOK

	case "\\d":
		return r.describeTable(arg)

	case "\\use":
		if arg == "" {
			fmt.Fprintln(r.out, "Usage: \\use <table>")
			return commandError
		}
		if err := r.sess.Use(arg); err != nil {
			r.printError("%v", err)
			return commandError
		}
		r.printSuccess("Using table '%s'", r.sess.Current().Name)
		return commandOK

	case "\\format":
		return r.setFormat(arg)

	case "\\export":
		if arg == "" {
			fmt.Fprintln(r.out, "Usage: \\export <file.csv>")
			return commandError
		}
		if err := output.ExportCSV(arg, r.sess.LastResult()); err != nil {
			r.printError("Export failed: %v", err)
			return commandError
		}
		r.printSuccess("Exported %d rows to %s", r.sess.LastResult().AffectedRows, arg)
		return commandOK

	case "\\test":
		return r.runSuite(arg)

	case "\\ai":
		if arg == "" {
			fmt.Fprintln(r.out, "Usage: \\ai <question>")
			return commandError
		}
		fmt.Fprintln(r.out, assist.Suggest(arg, r.sess.Current()))
		return commandOK

	case "\\gen":
		if arg == "" {
			fmt.Fprintln(r.out, "Usage: \\gen <description>")
			return commandError
		}
		fmt.Fprintln(r.out, assist.GenerateSQL(arg, r.sess.Current()))
		return commandOK

	case "\\explain":
		if arg == "" {
			fmt.Fprintln(r.out, "Usage: \\explain <sql>")
			return commandError
		}
		sql := strings.TrimSuffix(arg, ";")
		fmt.Fprintln(r.out, assist.Explain(sql, r.explainTable(sql), r.sess.ParseOptions()))
		return commandOK

	case "\\optimize":
		if arg == "" {
			fmt.Fprintln(r.out, "Usage: \\optimize <sql>")
			return commandError
		}
		fmt.Fprintln(r.out, assist.Optimize(arg, r.sess.Current()))
		return commandOK

	case "\\status":
		r.printStatus()
		return commandOK

	case "\\config":
		r.printConfig()
		return commandOK

	case "\\clear":
		fmt.Fprint(r.out, "\033[H\033[2J") // ANSI clear screen
		return commandOK

	default:
		r.printError("Unknown command: %s", cmd)
		fmt.Fprintln(r.out, "Type \\? for help")
		return commandError
	}
}

// explainTable returns the loaded table sql reads from, or the current table
// when the statement does not parse or names no loaded table.
func (r *REPL) explainTable(sql string) *table.Table {
	q, err := query.ParseWithOptions(sql, r.sess.ParseOptions())
	if err != nil {
		return r.sess.Current()
	}
	if t, err := r.sess.Resolve(q.TableName); err == nil {
		return t
	}
	return r.sess.Current()
}

func (r *REPL) loadTable(path string) commandResult {
	if path == "" {
		fmt.Fprintln(r.out, "Usage: \\load <file.csv|file.parquet>")
		return commandError
	}

	tbl, err := r.sess.Load(resolvePath(r.config.Data.Dir, path))
	if err != nil {
		r.printError("Load failed: %v", err)
		return commandError
	}
	r.printSuccess("Loaded table '%s' (%d rows, %d columns)", tbl.Name, tbl.RowCount(), tbl.ColumnCount())
	return commandOK
}

func (r *REPL) listTables() {
	tables := r.sess.Tables()
	if len(tables) == 0 {
		fmt.Fprintln(r.out, "No tables loaded")
		return
	}

	current := r.sess.Current()
	tw := tablewriter.NewWriter(r.out)
	tw.SetHeader([]string{"Table", "Rows", "Columns", "Current"})
	tw.SetAutoFormatHeaders(false)
	for _, t := range tables {
		marker := ""
		if t == current {
			marker = "*"
		}
		tw.Append([]string{t.Name, fmt.Sprint(t.RowCount()), fmt.Sprint(t.ColumnCount()), marker})
	}
	tw.Render()
}

func (r *REPL) describeTable(name string) commandResult {
	tbl, err := r.sess.Resolve(name)
	if err != nil {
		r.printError("%v", err)
		return commandError
	}

	fmt.Fprintln(r.out, headerStyle.Render(fmt.Sprintf("Table %s (%d rows)", tbl.Name, tbl.RowCount())))
	tw := tablewriter.NewWriter(r.out)
	tw.SetHeader([]string{"Column", "Type", "Nulls", "Sample"})
	tw.SetAutoFormatHeaders(false)
	for _, info := range reader.DescribeSchema(tbl) {
		tw.Append([]string{info.Name, info.Type, fmt.Sprint(info.Nulls), info.Sample})
	}
	tw.Render()
	return commandOK
}

func (r *REPL) setFormat(name string) commandResult {
	if name == "" {
		fmt.Fprintf(r.out, "Output format: %s (available: %s)\n", r.format, strings.Join(output.Formats, ", "))
		return commandOK
	}

	name = strings.ToLower(name)
	if _, err := output.NewFormatter(name, r.out, r.config.Output.MaxRows); err != nil {
		r.printError("%v", err)
		return commandError
	}
	r.format = name
	r.printSuccess("Output format set to %s", name)
	return commandOK
}

func (r *REPL) runSuite(path string) commandResult {
	if path == "" {
		fmt.Fprintln(r.out, "Usage: \\test <suite file>")
		return commandError
	}

	suite, err := testsuite.LoadFile(resolvePath(r.config.Tests.Dir, path), r.log.Zap())
	if err != nil {
		r.printError("%v", err)
		return commandError
	}

	if err := NewRunner(r.config, r.log).Run(context.Background(), suite); err != nil {
		r.printError("%v", err)
		return commandError
	}

	testsuite.WriteDetails(r.out, suite)
	if err := testsuite.WriteSummary(r.out, suite); err != nil {
		r.printError("%v", err)
		return commandError
	}
	if !suite.Ok() {
		return commandError
	}
	return commandOK
}

// resolvePath returns name when it exists, otherwise name inside dir
func resolvePath(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil || !errors.Is(err, os.ErrNotExist) {
		return name
	}
	return filepath.Join(dir, name)
}

func (r *REPL) printSuccess(format string, args ...interface{}) {
	fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *REPL) printError(format string, args ...interface{}) {
	fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `
minidb Commands
===============

SQL (end with ;):
  SELECT cols FROM table [WHERE col op value] [ORDER BY col [ASC|DESC]]
      op is one of =, !=, >, <, >=, <=, LIKE
      an empty table name uses the current table

Backslash Commands:
  \load <file>                     Load a CSV or Parquet file
  \dt, \tables                     List loaded tables
  \d [table]                       Describe a table
  \use <table>                     Set the current table
  \format [table|csv|json|jsonl]   Show or set the output format
  \export <file.csv>               Export the last result
  \test <suite>                    Run a test suite
  \ai <question>                   Ask for help writing a query
  \gen <description>               Generate a statement
  \explain <sql>                   Show the execution plan
  \optimize <sql>                  Suggest improvements
  \status                          Show session status
  \config                          Show configuration
  \clear                           Clear screen
  \?, \help                        Show this help
  \q, \quit                        Exit`)
}

func (r *REPL) printStatus() {
	fmt.Fprintln(r.out, headerStyle.Render("minidb Status"))
	fmt.Fprintf(r.out, "Version:        %s\n", Version)
	fmt.Fprintf(r.out, "Session:        %s\n", r.sess.ID)
	fmt.Fprintf(r.out, "Tables:         %d\n", len(r.sess.Tables()))
	if t := r.sess.Current(); t != nil {
		fmt.Fprintf(r.out, "Current table:  %s (%d rows)\n", t.Name, t.RowCount())
	} else {
		fmt.Fprintf(r.out, "Current table:  none\n")
	}
	fmt.Fprintf(r.out, "Output format:  %s\n", r.format)
	if last := r.sess.LastResult(); last != nil {
		fmt.Fprintf(r.out, "Last result:    %s\n", last.Message)
	}
}

func (r *REPL) printConfig() {
	c := r.config
	fmt.Fprintln(r.out, headerStyle.Render("Current Configuration"))
	fmt.Fprintf(r.out, "Data:\n")
	fmt.Fprintf(r.out, "  Directory:              %s\n", c.Data.Dir)
	fmt.Fprintf(r.out, "  Sample Rows:            %d\n", c.Data.SampleRows)
	fmt.Fprintf(r.out, "  Delimiter:              %q\n", c.Data.Delimiter)
	fmt.Fprintf(r.out, "Query:\n")
	fmt.Fprintf(r.out, "  Longest Operator Match: %t\n", c.Query.LongestOperatorMatch)
	fmt.Fprintf(r.out, "  Strict Columns:         %t\n", c.Query.StrictColumns)
	fmt.Fprintf(r.out, "Output:\n")
	fmt.Fprintf(r.out, "  Format:                 %s\n", c.Output.Format)
	fmt.Fprintf(r.out, "  Max Rows:               %d\n", c.Output.MaxRows)
	fmt.Fprintf(r.out, "Tests:\n")
	fmt.Fprintf(r.out, "  Directory:              %s\n", c.Tests.Dir)
	fmt.Fprintf(r.out, "  Parallelism:            %d\n", c.Tests.Parallelism)
	fmt.Fprintf(r.out, "Logging:\n")
	fmt.Fprintf(r.out, "  Level:                  %s\n", c.Log.Level)
	fmt.Fprintf(r.out, "  Format:                 %s\n", c.Log.Format)
	fmt.Fprintf(r.out, "  Output:                 %s\n", c.Log.Output)
}
