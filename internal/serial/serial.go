// Package serial renders a finished solve.Solver's state into the two
// output forms the driver supports (§6.3): a machine-readable JSON dump of
// the points-to sets, the call graph and the event count, and a
// human-readable Markdown report that is parsed through goldmark as a
// validity check. Neither form includes the class hierarchy (MROs or
// subclass sets), and no HTML is produced.
package serial

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
	"github.com/ptalias/ptalias/internal/solve"
)

var collator = collate.New(language.English)

// sortedStrings returns ss sorted with a locale-aware collator so reports
// are stable and readable regardless of the host's default string sort.
func sortedStrings(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Slice(out, func(i, j int) bool { return collator.CompareString(out[i], out[j]) < 0 })
	return out
}

// PointsToEntry is one pointer's resolved object set, in report order.
type PointsToEntry struct {
	Pointer string   `json:"pointer"`
	Objects []string `json:"objects"`
}

// CallGraphEntry is one caller's resolved callee set, in report order.
type CallGraphEntry struct {
	Caller  string   `json:"caller"`
	Callees []string `json:"callees"`
}

// Report is the complete JSON-serializable snapshot of a finished solve
// (§6.3).
type Report struct {
	PointsTo   []PointsToEntry  `json:"points_to"`
	CallGraph  []CallGraphEntry `json:"call_graph"`
	EventCount int              `json:"event_count"`
}

// BuildReport walks s's finished points-to store and call graph into a
// stable, sorted Report.
func BuildReport(s *solve.Solver) *Report {
	r := &Report{EventCount: s.EventsProcessed()}

	entries := map[string][]string{}
	s.Points.All(func(p ptr.Pointer, objs []object.Object) {
		names := make([]string, 0, len(objs))
		for _, o := range objs {
			names = append(names, o.String())
		}
		entries[p.String()] = sortedStrings(names)
	})
	for k, v := range entries {
		r.PointsTo = append(r.PointsTo, PointsToEntry{Pointer: k, Objects: v})
	}
	sort.Slice(r.PointsTo, func(i, j int) bool { return collator.CompareString(r.PointsTo[i].Pointer, r.PointsTo[j].Pointer) < 0 })

	s.Calls.Callers(func(caller string, callees []string) {
		r.CallGraph = append(r.CallGraph, CallGraphEntry{Caller: caller, Callees: sortedStrings(callees)})
	})
	sort.Slice(r.CallGraph, func(i, j int) bool { return collator.CompareString(r.CallGraph[i].Caller, r.CallGraph[j].Caller) < 0 })

	return r
}

// JSON marshals r with stable indentation.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Markdown renders r as a human-readable report and, as a fidelity check
// on the Markdown itself, round-trips it through goldmark's parser so a
// malformed table or heading is caught before it reaches the driver's
// output file.
func (r *Report) Markdown() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# Points-to analysis report")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "## Points-to sets")
	fmt.Fprintln(&buf)
	for _, e := range r.PointsTo {
		fmt.Fprintf(&buf, "- `%s` -> %v\n", e.Pointer, e.Objects)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "## Call graph")
	fmt.Fprintln(&buf)
	for _, e := range r.CallGraph {
		fmt.Fprintf(&buf, "- `%s` calls %v\n", e.Caller, e.Callees)
	}

	var discard bytes.Buffer
	if err := goldmark.Convert(buf.Bytes(), &discard); err != nil {
		return nil, fmt.Errorf("serial: rendering report markdown: %w", err)
	}
	return buf.Bytes(), nil
}
