// minidb - an in-memory SQL engine for CSV and Parquet files
// Main entry point for the shell and the one-shot commands

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
