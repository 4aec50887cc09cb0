package query

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vegasq/minidb/table"
)

// Stage failure messages
const (
	MsgFilterFailed  = "Filter condition execution failed"
	MsgProjectFailed = "Column selection execution failed"
	MsgSortFailed    = "Sort execution failed"
)

// ExecutionContext holds the settings and diagnostics hooks for query execution
type ExecutionContext struct {
	// Log receives pipeline diagnostics. Nil discards them.
	Log *zap.Logger
	// StrictColumns turns an unresolved projection column into a stage failure
	StrictColumns bool
	// OnLookupMiss is called for every column reference that does not resolve
	OnLookupMiss func(LookupMiss)
}

// NewExecutionContext creates a new execution context
func NewExecutionContext(log *zap.Logger) *ExecutionContext {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecutionContext{Log: log}
}

func (ctx *ExecutionContext) logger() *zap.Logger {
	if ctx == nil || ctx.Log == nil {
		return zap.NewNop()
	}
	return ctx.Log
}

func (ctx *ExecutionContext) strict() bool {
	return ctx != nil && ctx.StrictColumns
}

// reportMiss logs an unresolved column and forwards it to OnLookupMiss
func (ctx *ExecutionContext) reportMiss(stage Stage, column string) {
	if ctx == nil {
		return
	}
	ctx.logger().Warn("column not found",
		zap.Stringer("stage", stage),
		zap.String("column", column),
	)
	if ctx.OnLookupMiss != nil {
		ctx.OnLookupMiss(LookupMiss{Stage: stage, Column: column})
	}
}

// Execute runs q against src with a default context
func Execute(src *table.Table, q *Query) *Result {
	return NewExecutionContext(nil).Execute(src, q)
}

// Execute runs the pipeline Filter, Project, Sort over src.
//
// Filter runs only when q has a condition and Sort only when q names an
// order-by column; Project always runs. The source table is never modified.
// A failing stage ends the pipeline and is reported in the Result.
func (ctx *ExecutionContext) Execute(src *table.Table, q *Query) *Result {
	log := ctx.logger()

	if src == nil {
		return &Result{Message: "No table loaded"}
	}
	if q == nil {
		return &Result{Message: "No query"}
	}

	log.Debug("executing query",
		zap.String("table", src.Name),
		zap.Int("rows", src.RowCount()),
		zap.Stringer("query", q),
	)

	current := src

	if q.Condition != nil {
		filtered, err := ApplyFilterWithContext(current, q.Condition, ctx)
		if err != nil {
			return failed(log, StageFilter, MsgFilterFailed, err)
		}
		log.Debug("filter applied", zap.Int("rows", filtered.RowCount()))
		current = filtered
	}

	projected, err := ApplySelectListWithContext(current, q.Columns, ctx)
	if err != nil {
		return failed(log, StageProject, MsgProjectFailed, err)
	}
	current = projected

	if q.OrderBy != "" {
		sorted, err := ApplyOrderByWithContext(current, q.OrderBy, q.SortDir, ctx)
		if err != nil {
			return failed(log, StageSort, MsgSortFailed, err)
		}
		current = sorted
	}

	return &Result{
		Success:      true,
		Message:      fmt.Sprintf("Query successful, returned %d rows", current.RowCount()),
		AffectedRows: current.RowCount(),
		Table:        current,
	}
}

func failed(log *zap.Logger, stage Stage, msg string, err error) *Result {
	log.Warn("query stage failed", zap.Stringer("stage", stage), zap.Error(err))
	return &Result{
		Message:     fmt.Sprintf("%s: %v", msg, err),
		FailedStage: stage,
	}
}
