package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/minidb/internal/assist"
	"github.com/vegasq/minidb/internal/cli"
	"github.com/vegasq/minidb/internal/config"
	"github.com/vegasq/minidb/internal/logger"
	"github.com/vegasq/minidb/internal/session"
	"github.com/vegasq/minidb/internal/testsuite"
	"github.com/vegasq/minidb/output"
	"github.com/vegasq/minidb/query"
	"github.com/vegasq/minidb/reader"
	"github.com/vegasq/minidb/table"
)

var (
	version   = cli.Version
	buildDate = "dev"
)

// errTestsFailed makes the test command exit non-zero without repeating the report
var errTestsFailed = errors.New("test suite failed")

// app holds the state shared by all commands
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "minidb",
		Short: "minidb - SQL queries over CSV and Parquet files",
		Long: `minidb loads CSV and Parquet files into memory and runs simple
SELECT statements against them.

Start the interactive shell:
  minidb

Run a single query:
  minidb query people.csv -q "SELECT name FROM people WHERE age > 30"`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE:               a.runShell,
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(
		a.queryCmd(),
		a.schemaCmd(),
		a.testCmd(),
		a.assistCmd(),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "init" {
		return nil
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	a.cfg = cfg
	a.log = log.Named(cmd.Name())
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.log != nil {
		_ = a.log.Close()
	}
	return nil
}

func (a *app) newSession() *session.Session {
	return session.New(cli.SessionOptions(a.cfg, a.log))
}

func (a *app) runShell(cmd *cobra.Command, args []string) error {
	a.log.Info("starting shell", "version", version, "data_dir", a.cfg.Data.Dir)
	return cli.NewREPL(a.cfg, a.log, a.newSession()).Run()
}

func (a *app) queryCmd() *cobra.Command {
	var (
		sql    string
		format string
		limit  int
		export string
	)

	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Run a statement against a data file",
		Long: `Load a data file and run one statement against it.

The file may be given as an argument or as the FROM clause of the statement.
Without -q every row is returned.`,
		Example: `  minidb query people.csv
  minidb query people.csv -q "SELECT name, age FROM people WHERE city = 'NYC' ORDER BY age DESC"
  minidb query -q "SELECT * FROM data/people.csv" -f json
  minidb query people.csv -q "SELECT * FROM people" --export out.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative, got %d", limit)
			}
			if format == "" {
				format = a.cfg.Output.Format
			}

			if sql == "" {
				sql = "SELECT * FROM"
			}
			sess := a.newSession()
			q, err := query.ParseWithOptions(sql, sess.ParseOptions())
			if err != nil {
				return fmt.Errorf("parsing query: %w", err)
			}

			// the FROM clause names the file when no argument is given
			path := ""
			if len(args) > 0 {
				path = args[0]
			} else if q.TableName != "" {
				path = q.TableName
				q.TableName = ""
			}
			if path == "" {
				return errors.New("missing data file argument")
			}

			tbl, err := sess.Load(path)
			if err != nil {
				return err
			}
			if q.TableName != "" && reader.TableName(q.TableName) == tbl.Name {
				q.TableName = ""
			}

			result, err := sess.Run(q)
			if err != nil {
				return err
			}
			if !result.Success {
				return errors.New(result.Message)
			}
			if limit > 0 {
				result = limitResult(result, limit)
			}

			w := cmd.OutOrStdout()
			f, err := output.NewFormatter(format, w, a.cfg.Output.MaxRows)
			if err != nil {
				return err
			}
			if err := f.Format(result.Table); err != nil {
				return err
			}

			if export != "" {
				if err := output.ExportCSV(export, result); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", result.AffectedRows, export)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sql, "query", "q", "", "SQL statement (e.g. \"SELECT * FROM people WHERE age > 30\")")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table, csv, json, jsonl (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit number of rows (0 = unlimited)")
	cmd.Flags().StringVar(&export, "export", "", "also write the result to this CSV file")
	return cmd
}

// limitResult keeps the first n rows of a successful result
func limitResult(result *query.Result, n int) *query.Result {
	if result.Table.RowCount() <= n {
		return result
	}
	limited, err := table.New(result.Table.Name, result.Table.Columns())
	if err != nil {
		return result
	}
	for i := 0; i < n; i++ {
		_ = limited.AppendRow(result.Table.Row(i))
	}
	return &query.Result{
		Success:      true,
		Message:      fmt.Sprintf("Query successful, returned %d rows", n),
		AffectedRows: n,
		Table:        limited,
	}
}

func (a *app) schemaCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Show the columns of a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := reader.Load(args[0], cli.LoadOptions(a.cfg, a.log))
			if err != nil {
				return err
			}

			schema, err := schemaTable(reader.DescribeSchema(tbl))
			if err != nil {
				return err
			}

			f, err := output.NewFormatter(format, cmd.OutOrStdout(), schema.RowCount())
			if err != nil {
				return err
			}
			return f.Format(schema)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, csv, json, jsonl")
	return cmd
}

// schemaTable turns schema information into a table for the formatters
func schemaTable(infos []reader.SchemaInfo) (*table.Table, error) {
	t, err := table.New("schema", []table.Column{
		{Name: "name", Type: table.TypeString},
		{Name: "type", Type: table.TypeString},
		{Name: "nulls", Type: table.TypeInteger},
		{Name: "sample", Type: table.TypeString},
	})
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if err := t.AppendStrings(info.Name, info.Type, strconv.Itoa(info.Nulls), info.Sample); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (a *app) testCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "test <suite>",
		Short: "Run a test suite",
		Long: `Run the cases of a test suite file and print a report.

Suites are YAML (.yaml, .yml) or pipe-delimited lines:
  name|type|sql|data_file|expected_rows|description`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := testsuite.LoadFile(args[0], a.log.Zap())
			if err != nil {
				return err
			}

			runner := cli.NewRunner(a.cfg, a.log)
			if dataDir != "" {
				runner.DataDir = dataDir
			}
			if err := runner.Run(context.Background(), suite); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			testsuite.WriteDetails(w, suite)
			if err := testsuite.WriteSummary(w, suite); err != nil {
				return err
			}
			if !suite.Ok() {
				return errTestsFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "directory holding the data files (default from config)")
	return cmd
}

func (a *app) assistCmd() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "assist <question...>",
		Short: "Ask for help writing a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tbl *table.Table
			if dataFile != "" {
				t, err := reader.Load(dataFile, cli.LoadOptions(a.cfg, a.log))
				if err != nil {
					return err
				}
				tbl = t
			}

			fmt.Fprintln(cmd.OutOrStdout(), assist.Suggest(strings.Join(args, " "), tbl))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "data file to tailor the answer to")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a data directory and a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "./data"
			if len(args) > 0 {
				dir = args[0]
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Initializing minidb in: %s\n", dir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}

			cfgPath := config.FileName
			if _, err := os.Stat(cfgPath); err == nil {
				fmt.Fprintf(w, "Config file %s already exists, leaving it unchanged\n", cfgPath)
			} else {
				if err := config.CreateDefaultConfig(cfgPath, dir); err != nil {
					return err
				}
				fmt.Fprintf(w, "Created config file: %s\n", cfgPath)
			}

			fmt.Fprintf(w, "Put CSV or Parquet files in %s and start the shell with: minidb\n", filepath.Clean(dir))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minidb %s (built %s)\n", version, buildDate)
		},
	}
}
