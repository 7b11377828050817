package webcompare_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/webcompare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []*webcompare.Result {
	origin := webcompare.Fetched{URL: "http://o/", Code: 200, Time: 0.5, HTMLErrors: []string{"line 1 column 1 - Warning: <img> lacks \"alt\" attribute"}}
	target := webcompare.Fetched{URL: "http://t/", Code: 200, Time: 0.25, HTMLErrors: []string{}}
	return []*webcompare.Result{
		webcompare.NewGoodResult(origin, target, map[string]int{"TitleComparator": 100}),
		webcompare.NewBadOriginResult("http://o/gone", 404),
		webcompare.NewErrorResult("http://o/broken", 0),
		webcompare.NewBadOriginResult("http://o/private", 403),
	}
}

func TestNewReport(t *testing.T) {
	t.Parallel()

	r := webcompare.NewReport(sampleResults())

	assert.Len(t, r.Results, 4)
	assert.Equal(t, map[string]int{"GoodResult": 1, "BadOriginResult": 2, "ErrorResult": 1}, r.Stats)
	assert.NoError(t, r.Validate())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("concatenates results and sums stats", func(t *testing.T) {
		t.Parallel()

		results := sampleResults()
		a := webcompare.NewReport(results[:2])
		b := webcompare.NewReport(results[2:])

		merged := webcompare.Merge(a, b)

		assert.Equal(t, results, merged.Results)
		assert.Equal(t, map[string]int{"GoodResult": 1, "BadOriginResult": 2, "ErrorResult": 1}, merged.Stats)
		assert.NoError(t, merged.Validate())
	})

	t.Run("is associative", func(t *testing.T) {
		t.Parallel()

		results := sampleResults()
		a := webcompare.NewReport(results[:1])
		b := webcompare.NewReport(results[1:3])
		c := webcompare.NewReport(results[3:])

		left := webcompare.Merge(webcompare.Merge(a, b), c)
		right := webcompare.Merge(a, webcompare.Merge(b, c))

		assert.Equal(t, left, right)
	})

	t.Run("of nothing is empty", func(t *testing.T) {
		t.Parallel()

		merged := webcompare.Merge()

		assert.Empty(t, merged.Results)
		assert.Empty(t, merged.Stats)
	})
}

func TestReport_StripHTMLErrors(t *testing.T) {
	t.Parallel()

	r := webcompare.NewReport(sampleResults())
	r.StripHTMLErrors()

	for _, res := range r.Results {
		assert.Nil(t, res.OriginHTMLErrors)
		assert.Nil(t, res.TargetHTMLErrors)
	}
	assert.NoError(t, r.Validate())
}

func TestReport_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects stats that disagree with results", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewReport(sampleResults())
		r.Stats["GoodResult"] = 5

		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(r.Validate()))
	})

	t.Run("rejects missing stats", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewReport(sampleResults())
		delete(r.Stats, "ErrorResult")

		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(r.Validate()))
	})
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	t.Run("writes the documented shape with four space indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := webcompare.WriteReport(&buf, webcompare.NewReport([]*webcompare.Result{
			webcompare.NewErrorResult("http://o/<x>", 0),
		}))
		require.NoError(t, err)

		want := `{
    "results": {
        "resultlist": [
            {
                "comparisons": {},
                "origin_code": 0,
                "origin_html_errors": null,
                "origin_time": null,
                "origin_url": "http://o/<x>",
                "result_type": "ErrorResult",
                "target_code": null,
                "target_html_errors": null,
                "target_time": null,
                "target_url": null
            }
        ],
        "stats": {
            "ErrorResult": 1
        }
    }
}
`
		assert.Equal(t, want, buf.String())
	})

	t.Run("writes an empty list for an empty report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, webcompare.WriteReport(&buf, webcompare.NewReport(nil)))

		assert.JSONEq(t, `{"results":{"resultlist":[],"stats":{}}}`, buf.String())
	})

	t.Run("writes nothing when encoding fails", func(t *testing.T) {
		t.Parallel()

		bad := webcompare.NewErrorResult("http://o/", 0)
		bad.Type = webcompare.ResultType(42)

		var buf bytes.Buffer
		err := webcompare.WriteReport(&buf, &webcompare.Report{Results: []*webcompare.Result{bad}})

		require.Error(t, err)
		assert.Zero(t, buf.Len())
	})

	t.Run("returns writer errors", func(t *testing.T) {
		t.Parallel()

		err := webcompare.WriteReport(failingWriter{}, webcompare.NewReport(sampleResults()))

		assert.ErrorIs(t, err, errWriteFailed)
	})
}

func TestReadReport(t *testing.T) {
	t.Parallel()

	t.Run("reads back what was written", func(t *testing.T) {
		t.Parallel()

		want := webcompare.NewReport(sampleResults())
		var buf bytes.Buffer
		require.NoError(t, webcompare.WriteReport(&buf, want))

		got, err := webcompare.ReadReport(&buf)

		require.NoError(t, err)
		assert.Equal(t, want.Stats, got.Stats)
		require.Len(t, got.Results, len(want.Results))
		for i := range want.Results {
			assert.Equal(t, want.Results[i].String(), got.Results[i].String())
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()

		_, err := webcompare.ReadReport(strings.NewReader(`{"results":`))

		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(err))
	})

	t.Run("rejects unknown result types", func(t *testing.T) {
		t.Parallel()

		_, err := webcompare.ReadReport(strings.NewReader(
			`{"results":{"resultlist":[{"origin_url":"http://o/","origin_code":0,"result_type":"OddResult"}],"stats":{"OddResult":1}}}`))

		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(err))
	})

	t.Run("rejects stats that do not match", func(t *testing.T) {
		t.Parallel()

		_, err := webcompare.ReadReport(strings.NewReader(
			`{"results":{"resultlist":[{"origin_url":"http://o/","origin_code":0,"result_type":"ErrorResult","comparisons":{}}],"stats":{"ErrorResult":2}}}`))

		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(err))
	})
}

var errWriteFailed = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }
