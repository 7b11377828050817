package webcompare_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/webcompare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultType(t *testing.T) {
	t.Parallel()

	t.Run("round trips through its report name", func(t *testing.T) {
		t.Parallel()

		for _, rt := range webcompare.ResultTypes() {
			text, err := rt.MarshalText()
			require.NoError(t, err)

			var got webcompare.ResultType
			require.NoError(t, got.UnmarshalText(text))
			assert.Equal(t, rt, got)
		}
	})

	t.Run("uses the report names", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "ErrorResult", webcompare.ResultError.String())
		assert.Equal(t, "BadOriginResult", webcompare.ResultBadOrigin.String())
		assert.Equal(t, "BadTargetResult", webcompare.ResultBadTarget.String())
		assert.Equal(t, "GoodResult", webcompare.ResultGood.String())
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()

		_, err := webcompare.ParseResultType("MaybeResult")
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(err))
	})
}

func TestResult_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes absent fields as null and empty comparisons as object", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(webcompare.NewBadOriginResult("http://o/missing", 404))
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"comparisons": {},
			"origin_code": 404,
			"origin_html_errors": null,
			"origin_time": null,
			"origin_url": "http://o/missing",
			"result_type": "BadOriginResult",
			"target_code": null,
			"target_html_errors": null,
			"target_time": null,
			"target_url": null
		}`, string(data))
	})

	t.Run("emits keys in sorted order", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewGoodResult(
			webcompare.Fetched{URL: "http://o/", Code: 200, Time: 0.5, HTMLErrors: []string{}},
			webcompare.Fetched{URL: "http://t/", Code: 200, Time: 0.25, HTMLErrors: []string{}},
			map[string]int{"TitleComparator": 100},
		)
		data, err := json.Marshal(r)
		require.NoError(t, err)

		assert.Equal(t,
			`{"comparisons":{"TitleComparator":100},"origin_code":200,"origin_html_errors":[],"origin_time":0.5,`+
				`"origin_url":"http://o/","result_type":"GoodResult","target_code":200,"target_html_errors":[],`+
				`"target_time":0.25,"target_url":"http://t/"}`,
			string(data))
	})
}

func TestResult_Validate(t *testing.T) {
	t.Parallel()

	origin := webcompare.Fetched{URL: "http://o/a", Code: 200, Time: 0.1, HTMLErrors: []string{}}
	target := webcompare.Fetched{URL: "http://t/a", Code: 200, Time: 0.2, HTMLErrors: []string{}}

	t.Run("accepts every constructor's output", func(t *testing.T) {
		t.Parallel()

		for _, r := range []*webcompare.Result{
			webcompare.NewErrorResult("http://o/a", 0),
			webcompare.NewBadOriginResult("http://o/a", 500),
			webcompare.NewBadTargetResult(origin, "http://t/a", 0),
			webcompare.NewGoodResult(origin, target, map[string]int{"BodyComparator": 87}),
		} {
			assert.NoError(t, r.Validate(), r.String())
		}
	})

	t.Run("rejects an empty origin url", func(t *testing.T) {
		t.Parallel()

		err := webcompare.NewErrorResult("", 0).Validate()
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(err))
	})

	t.Run("rejects scores outside 0 to 100", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewGoodResult(origin, target, map[string]int{"LengthComparator": 101})
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(r.Validate()))
	})

	t.Run("rejects target fields on a bad origin", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewBadOriginResult("http://o/a", 404)
		code := 200
		r.TargetCode = &code
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(r.Validate()))
	})

	t.Run("rejects comparisons on a bad target", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewBadTargetResult(origin, "http://t/a", 0)
		r.Comparisons["TitleComparator"] = 50
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(r.Validate()))
	})

	t.Run("rejects a good result without target timing", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewGoodResult(origin, target, nil)
		r.TargetTime = nil
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(r.Validate()))
	})

	t.Run("rejects identical origin and target urls", func(t *testing.T) {
		t.Parallel()

		r := webcompare.NewGoodResult(origin, webcompare.Fetched{URL: "http://o/a", Code: 200}, nil)
		assert.Equal(t, webcompare.EINVALID, webcompare.ErrorCode(r.Validate()))
	})
}

func TestResult_String(t *testing.T) {
	t.Parallel()

	r := webcompare.NewGoodResult(
		webcompare.Fetched{URL: "http://o/", Code: 200},
		webcompare.Fetched{URL: "http://t/", Code: 404},
		map[string]int{"TitleComparator": 100, "BodyComparator": 42},
	)

	assert.Equal(t,
		"<GoodResult o=http://o/ oc=200 t=http://t/ tc=404 comp={BodyComparator: 42, TitleComparator: 100}>",
		r.String())
	assert.Equal(t,
		"<ErrorResult o=http://o/x oc=0 t=- tc=- comp={}>",
		webcompare.NewErrorResult("http://o/x", 0).String())
}
