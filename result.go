package webcompare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ResultType identifies the outcome of comparing one URL pair.
type ResultType int

// Result types, in classification priority order.
const (
	ResultError ResultType = iota + 1
	ResultBadOrigin
	ResultBadTarget
	ResultGood
)

var resultTypeNames = map[ResultType]string{
	ResultError:     "ErrorResult",
	ResultBadOrigin: "BadOriginResult",
	ResultBadTarget: "BadTargetResult",
	ResultGood:      "GoodResult",
}

// ResultTypes lists every result type in classification priority order.
func ResultTypes() []ResultType {
	return []ResultType{ResultError, ResultBadOrigin, ResultBadTarget, ResultGood}
}

// String returns the report name of the result type.
func (t ResultType) String() string {
	if name, ok := resultTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ResultType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t ResultType) MarshalText() ([]byte, error) {
	name, ok := resultTypeNames[t]
	if !ok {
		return nil, Errorf(EINTERNAL, "unknown result type %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ResultType) UnmarshalText(text []byte) error {
	rt, err := ParseResultType(string(text))
	if err != nil {
		return err
	}
	*t = rt
	return nil
}

// ParseResultType returns the result type with the given report name.
func ParseResultType(name string) (ResultType, error) {
	for rt, n := range resultTypeNames {
		if n == name {
			return rt, nil
		}
	}
	return 0, Errorf(EINVALID, "unknown result type %q", name)
}

// Fetched describes one side of a URL pair after a completed fetch.
type Fetched struct {
	URL  string
	Code int
	// Time is the fetch duration in seconds.
	Time float64
	// HTMLErrors is nil when the content was not parsed as HTML.
	HTMLErrors []string
}

// Result is the recorded outcome for one origin URL. Fields are declared in
// report key order.
type Result struct {
	Comparisons      map[string]int `json:"comparisons"`
	OriginCode       int            `json:"origin_code"`
	OriginHTMLErrors []string       `json:"origin_html_errors"`
	OriginTime       *float64       `json:"origin_time"`
	OriginURL        string         `json:"origin_url"`
	Type             ResultType     `json:"result_type"`
	TargetCode       *int           `json:"target_code"`
	TargetHTMLErrors []string       `json:"target_html_errors"`
	TargetTime       *float64       `json:"target_time"`
	TargetURL        *string        `json:"target_url"`
}

// NewErrorResult records an origin fetch that produced no usable response.
// code is the HTTP status if one was observed, else 0.
func NewErrorResult(originURL string, code int) *Result {
	return &Result{
		Type:        ResultError,
		OriginURL:   originURL,
		OriginCode:  code,
		Comparisons: map[string]int{},
	}
}

// NewBadOriginResult records an origin that answered with a non-200 status.
func NewBadOriginResult(originURL string, code int) *Result {
	return &Result{
		Type:        ResultBadOrigin,
		OriginURL:   originURL,
		OriginCode:  code,
		Comparisons: map[string]int{},
	}
}

// NewBadTargetResult records a good origin whose target could not be fetched.
func NewBadTargetResult(origin Fetched, targetURL string, targetCode int) *Result {
	r := &Result{
		Type:        ResultBadTarget,
		TargetURL:   &targetURL,
		TargetCode:  &targetCode,
		Comparisons: map[string]int{},
	}
	r.setOrigin(origin)
	return r
}

// NewGoodResult records a fully compared URL pair.
func NewGoodResult(origin, target Fetched, comparisons map[string]int) *Result {
	if comparisons == nil {
		comparisons = map[string]int{}
	}
	r := &Result{
		Type:             ResultGood,
		TargetURL:        &target.URL,
		TargetCode:       &target.Code,
		TargetTime:       &target.Time,
		TargetHTMLErrors: target.HTMLErrors,
		Comparisons:      comparisons,
	}
	r.setOrigin(origin)
	return r
}

func (r *Result) setOrigin(origin Fetched) {
	r.OriginURL = origin.URL
	r.OriginCode = origin.Code
	r.OriginTime = &origin.Time
	r.OriginHTMLErrors = origin.HTMLErrors
}

// MarshalJSON encodes the result, always emitting comparisons as an object.
func (r *Result) MarshalJSON() ([]byte, error) {
	type result Result
	v := result(*r)
	if v.Comparisons == nil {
		v.Comparisons = map[string]int{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Validate checks that the fields set on r are the ones its type allows.
func (r *Result) Validate() error {
	if r == nil {
		return Errorf(EINVALID, "result required")
	}
	if r.OriginURL == "" {
		return Errorf(EINVALID, "origin_url required")
	}
	if r.OriginCode < 0 {
		return Errorf(EINVALID, "%s: origin_code %d is negative", r.OriginURL, r.OriginCode)
	}
	for name, score := range r.Comparisons {
		if score < MatchNothing || score > MatchPerfect {
			return Errorf(EINVALID, "%s: comparison %s=%d out of range", r.OriginURL, name, score)
		}
	}
	if r.TargetURL != nil && *r.TargetURL == r.OriginURL {
		return Errorf(EINVALID, "%s: target_url equals origin_url", r.OriginURL)
	}

	switch r.Type {
	case ResultError, ResultBadOrigin:
		if r.OriginTime != nil || r.OriginHTMLErrors != nil || r.hasTarget() || len(r.Comparisons) > 0 {
			return Errorf(EINVALID, "%s: %s carries fields beyond origin url and code", r.OriginURL, r.Type)
		}
	case ResultBadTarget:
		if r.OriginTime == nil || r.TargetURL == nil || r.TargetCode == nil {
			return Errorf(EINVALID, "%s: %s requires origin_time, target_url and target_code", r.OriginURL, r.Type)
		}
		if r.TargetTime != nil || r.TargetHTMLErrors != nil || len(r.Comparisons) > 0 {
			return Errorf(EINVALID, "%s: %s carries target timing, diagnostics or comparisons", r.OriginURL, r.Type)
		}
	case ResultGood:
		if r.OriginTime == nil || r.TargetURL == nil || r.TargetCode == nil || r.TargetTime == nil {
			return Errorf(EINVALID, "%s: %s requires origin and target timing and status", r.OriginURL, r.Type)
		}
	default:
		return Errorf(EINVALID, "%s: unknown result type %d", r.OriginURL, int(r.Type))
	}
	return nil
}

func (r *Result) hasTarget() bool {
	return r.TargetURL != nil || r.TargetCode != nil || r.TargetTime != nil || r.TargetHTMLErrors != nil
}

// String renders a one-line summary for logs.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s o=%s oc=%d t=%s tc=%s comp={", r.Type, r.OriginURL, r.OriginCode,
		derefString(r.TargetURL), derefInt(r.TargetCode))
	names := make([]string, 0, len(r.Comparisons))
	for name := range r.Comparisons {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", name, r.Comparisons[name])
	}
	b.WriteString("}>")
	return b.String()
}

func derefString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func derefInt(i *int) string {
	if i == nil {
		return "-"
	}
	return fmt.Sprint(*i)
}
