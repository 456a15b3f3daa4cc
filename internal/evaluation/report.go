package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var reportHeader = []string{"name", "ok", "reason", "policy", "reply_words", "forbidden", "contains_sie", "needs_human"}

// WriteCSV writes one row per result. Unknown values are empty cells.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Name,
			strconv.FormatBool(r.OK),
			r.Reason,
			optString(r.Policy),
			optInt(r.ReplyWords),
			optBool(r.Forbidden),
			optBool(r.ContainsSie),
			optBool(r.NeedsHuman),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary counts passing results.
type Summary struct {
	Passed int
	Total  int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK {
			s.Passed++
		}
	}
	return s
}

// PassRate is the passing share in percent; zero for an empty run.
func (s Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// Print writes the summary block.
func (s Summary) Print(w io.Writer, reportPath string) {
	fmt.Fprintln(w, "\n==== SUMMARY ====")
	fmt.Fprintf(w, "Passed: %d/%d (%.1f%%)\n", s.Passed, s.Total, s.PassRate())
	fmt.Fprintf(w, "Report: %s\n", reportPath)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
