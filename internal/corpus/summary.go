package corpus

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/okian/mmolbparse/internal/domain/roundtrip"
)

// Summary aggregates the outcome of a corpus run. Skipped counts messages a
// service dropped as duplicates. Failures holds every unmatched result,
// sorted by ID.
type Summary struct {
	Total    int
	Skipped  int
	Outcomes map[roundtrip.Outcome]int
	Failures []roundtrip.Result
	Duration time.Duration
}

// Summarize groups results by outcome.
func Summarize(results []roundtrip.Result, took time.Duration) Summary {
	s := Summary{
		Total:    len(results),
		Outcomes: make(map[roundtrip.Outcome]int, len(roundtrip.Outcomes)),
		Duration: took,
	}
	for _, res := range results {
		s.Outcomes[res.Outcome]++
		if res.Outcome != roundtrip.OutcomeMatched {
			s.Failures = append(s.Failures, res)
		}
	}
	sort.Slice(s.Failures, func(i, j int) bool { return s.Failures[i].ID < s.Failures[j].ID })
	return s
}

// Mismatches returns the number of texts that parsed but printed back
// differently.
func (s Summary) Mismatches() int { return s.Outcomes[roundtrip.OutcomeMismatch] }

// OK reports whether the run had no mismatches. Parse errors and unknown
// kinds are reported but do not fail a run: they are expected for
// unsupported events.
func (s Summary) OK() bool { return s.Mismatches() == 0 }

// Write prints the summary. With verbose set, parse errors and unknown kinds
// are listed next to the mismatches.
func (s Summary) Write(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "checked %d messages in %s\n", s.Total, s.Duration.Round(time.Millisecond))
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  %-13s %d\n", "duplicate", s.Skipped)
	}
	for _, o := range roundtrip.Outcomes {
		fmt.Fprintf(w, "  %-13s %d\n", o, s.Outcomes[o])
	}
	for _, res := range s.Failures {
		if res.Outcome != roundtrip.OutcomeMismatch && !verbose {
			continue
		}
		fmt.Fprintf(w, "\n%s %s [%s %s] %s\n", res.Outcome, res.ID, res.Family, res.Kind, res.Event)
		if res.Outcome != roundtrip.OutcomeMismatch {
			fmt.Fprintf(w, "  text:     %q\n", res.Text)
			continue
		}
		fmt.Fprintf(w, "  original: %q\n", res.Text)
		fmt.Fprintf(w, "  printed:  %q\n", res.Unparsed)
		fmt.Fprintf(w, "  diverges at byte %d: %q vs %q\n", res.Offset, tail(res.Text, res.Offset), tail(res.Unparsed, res.Offset))
	}
}

// tail returns up to 24 bytes of s starting at offset, trimmed to whole runes.
func tail(s string, offset int) string {
	const window = 24
	if offset < 0 || offset >= len(s) {
		return ""
	}
	s = s[offset:]
	if len(s) > window {
		s = s[:window]
	}
	return strings.ToValidUTF8(s, "")
}
