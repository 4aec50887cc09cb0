package testsuite

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary writes the totals of the last run
func WriteSummary(w io.Writer, suite *Suite) error {
	_, err := fmt.Fprintf(w,
		"=== Test Results Summary ===\n"+
			"Suite: %s\n"+
			"Total test cases: %d\n"+
			"Passed: %d\n"+
			"Failed: %d\n"+
			"Skipped: %d\n"+
			"Errors: %d\n"+
			"Total execution time: %.3fs\n",
		suite.Name, len(suite.Cases), suite.Passed, suite.Failed,
		suite.Skipped, suite.Errors, suite.TotalTime.Seconds())
	return err
}

// WriteDetails writes one row per case
func WriteDetails(w io.Writer, suite *Suite) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Case", "Type", "Status", "Time", "Message"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	for _, tc := range suite.Cases {
		tw.Append([]string{
			tc.Name,
			tc.Type.String(),
			tc.Status.String(),
			fmt.Sprintf("%.3fs", tc.Duration.Seconds()),
			tc.Message,
		})
	}
	tw.Render()
}
