package testsuite

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vegasq/minidb/query"
	"github.com/vegasq/minidb/reader"
	"github.com/vegasq/minidb/table"
)

// Runner executes the cases of a suite
type Runner struct {
	// DataDir is prepended to relative data file names
	DataDir string
	// Parallelism bounds the number of cases run at once; values below 1 mean 1
	Parallelism int
	// StrictColumns fails queries that name a column the data does not have
	StrictColumns bool

	Load  reader.Options
	Parse query.ParseOptions
	Log   *zap.Logger
}

// Run executes every case of suite and fills in the per-case status and the
// suite totals. Each case loads its own copy of its data file. Run returns an
// error only when ctx is cancelled; case failures are recorded on the case.
func (r *Runner) Run(ctx context.Context, suite *Suite) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	suite.RunID = uuid.NewString()
	log = log.With(zap.String("suite", suite.Name), zap.String("run", suite.RunID))
	log.Info("running test suite", zap.Int("cases", len(suite.Cases)))

	limit := r.Parallelism
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	start := time.Now()
	for _, tc := range suite.Cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.runCase(tc, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("test suite interrupted: %w", err)
	}

	suite.Passed, suite.Failed, suite.Skipped, suite.Errors = 0, 0, 0, 0
	for _, tc := range suite.Cases {
		switch tc.Status {
		case StatusPassed:
			suite.Passed++
		case StatusFailed:
			suite.Failed++
		case StatusSkipped:
			suite.Skipped++
		case StatusError:
			suite.Errors++
		}
	}
	suite.TotalTime = time.Since(start)

	log.Info("test suite finished",
		zap.Int("passed", suite.Passed),
		zap.Int("failed", suite.Failed),
		zap.Int("skipped", suite.Skipped),
		zap.Int("errors", suite.Errors),
		zap.Duration("elapsed", suite.TotalTime),
	)
	return nil
}

// runCase runs a single case and records its outcome on tc
func (r *Runner) runCase(tc *Case, log *zap.Logger) {
	start := time.Now()
	defer func() {
		tc.Duration = time.Since(start)
		log.Debug("test case finished",
			zap.String("case", tc.Name),
			zap.Stringer("status", tc.Status),
			zap.String("message", tc.Message),
		)
	}()

	var data *table.Table
	if tc.DataFile != "" {
		t, err := reader.Load(r.dataPath(tc.DataFile), r.Load)
		if err != nil {
			tc.Status = StatusError
			tc.Message = fmt.Sprintf("Data file loading failed: %v", err)
			return
		}
		data = t
	}

	var msg string
	switch tc.Type {
	case TypeDataLoad:
		msg = checkDataLoad(tc, data)
	case TypeSQLQuery:
		msg = r.checkQuery(tc, data, log.With(zap.String("case", tc.Name)))
	case TypeFunctional:
		tc.Status, tc.Message = StatusSkipped, "Functional test not implemented"
		return
	case TypePerformance:
		tc.Status, tc.Message = StatusSkipped, "Performance test not implemented"
		return
	}

	if msg != "" {
		tc.Status, tc.Message = StatusFailed, msg
		return
	}
	tc.Status, tc.Message = StatusPassed, ""
}

func (r *Runner) dataPath(name string) string {
	if r.DataDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.DataDir, name)
}

func checkDataLoad(tc *Case, data *table.Table) string {
	if data == nil {
		return "Data file not specified"
	}
	if tc.ExpectedRows >= 0 && data.RowCount() != tc.ExpectedRows {
		return fmt.Sprintf("Expected %d rows, got %d rows", tc.ExpectedRows, data.RowCount())
	}
	return ""
}

func (r *Runner) checkQuery(tc *Case, data *table.Table, log *zap.Logger) string {
	if data == nil {
		return "Data table not loaded"
	}
	if tc.SQL == "" {
		return "SQL query is empty"
	}

	q, err := query.ParseWithOptions(tc.SQL, r.Parse)
	if err != nil {
		return fmt.Sprintf("SQL parsing failed: %v", err)
	}

	exec := query.NewExecutionContext(log)
	exec.StrictColumns = r.StrictColumns
	result := exec.Execute(data, q)
	if !result.Success {
		return fmt.Sprintf("Query execution failed: %s", result.Message)
	}

	return verify(tc, result.Table)
}

// verify compares the result shape with the expectations of tc
func verify(tc *Case, result *table.Table) string {
	if result == nil {
		return "Result table is empty"
	}
	if tc.ExpectedRows >= 0 && result.RowCount() != tc.ExpectedRows {
		return fmt.Sprintf("Row count mismatch: expected %d, got %d", tc.ExpectedRows, result.RowCount())
	}
	if tc.ExpectedColumns > 0 && result.ColumnCount() != tc.ExpectedColumns {
		return fmt.Sprintf("Column count mismatch: expected %d, got %d", tc.ExpectedColumns, result.ColumnCount())
	}
	return ""
}
