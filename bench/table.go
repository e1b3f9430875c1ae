package bench

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// FormatTable renders benchmark results as an aligned text table. Failed
// variants keep their row with an explicit marker instead of numbers, so a
// partial run is still readable at a glance.
func FormatTable(results []Result) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "VARIANT\tCV ERROR\tTEST ERROR")
	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(w, "%s\tFAILED\t%v\n", r.Variant, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", r.Variant, r.CVError, r.TestError)
	}
	w.Flush()
	return sb.String()
}
