package webcompare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
)

// Report is the full outcome of one or more runs: the result list and the
// number of results of each type.
type Report struct {
	Results []*Result
	// Stats maps result type names to counts. It is always equal to a
	// recount of Results.
	Stats map[string]int
}

// NewReport builds a report from results, deriving the stats.
func NewReport(results []*Result) *Report {
	r := &Report{Stats: map[string]int{}}
	for _, res := range results {
		r.Add(res)
	}
	return r
}

// Add appends a result and updates the stats.
func (r *Report) Add(res *Result) {
	if r.Stats == nil {
		r.Stats = map[string]int{}
	}
	r.Results = append(r.Results, res)
	r.Stats[res.Type.String()]++
}

// Merge concatenates the result lists of reports in order and sums their
// stats.
func Merge(reports ...*Report) *Report {
	merged := &Report{Results: []*Result{}, Stats: map[string]int{}}
	for _, r := range reports {
		if r == nil {
			continue
		}
		merged.Results = append(merged.Results, r.Results...)
		for k, v := range r.Stats {
			merged.Stats[k] += v
		}
	}
	return merged
}

// StripHTMLErrors drops HTML validity diagnostics from every result.
func (r *Report) StripHTMLErrors() {
	for _, res := range r.Results {
		res.OriginHTMLErrors = nil
		res.TargetHTMLErrors = nil
	}
}

// Validate checks every result and that the stats match the results.
func (r *Report) Validate() error {
	counts := map[string]int{}
	for i, res := range r.Results {
		if err := res.Validate(); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
		counts[res.Type.String()]++
	}
	for k, v := range r.Stats {
		if v == 0 {
			delete(counts, k)
			continue
		}
		if counts[k] != v {
			return Errorf(EINVALID, "stats %s=%d but %d results of that type", k, v, counts[k])
		}
	}
	for k, v := range counts {
		if _, ok := r.Stats[k]; !ok {
			return Errorf(EINVALID, "stats missing %s (%d results)", k, v)
		}
	}
	return nil
}

type reportDocument struct {
	Results reportBody `json:"results"`
}

type reportBody struct {
	ResultList []*Result      `json:"resultlist"`
	Stats      map[string]int `json:"stats"`
}

// WriteReport writes the report as one indented JSON document. The document
// is fully encoded before anything is written to w.
func WriteReport(w io.Writer, r *Report) error {
	doc := reportDocument{Results: reportBody{
		ResultList: r.Results,
		Stats:      maps.Clone(r.Stats),
	}}
	if doc.Results.ResultList == nil {
		doc.Results.ResultList = []*Result{}
	}
	if doc.Results.Stats == nil {
		doc.Results.Stats = map[string]int{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadReport decodes and validates a report written by WriteReport.
func ReadReport(rd io.Reader) (*Report, error) {
	var doc reportDocument
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, Errorf(EINVALID, "decoding report: %v", err)
	}
	r := &Report{Results: doc.Results.ResultList, Stats: doc.Results.Stats}
	if r.Results == nil {
		r.Results = []*Result{}
	}
	if r.Stats == nil {
		r.Stats = map[string]int{}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
