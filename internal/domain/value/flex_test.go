package value_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

func TestFlexString(t *testing.T) {
	rq := require.New(t)

	var doc struct {
		Profitable value.FlexString `json:"profitable"`
		Percentage value.FlexString `json:"percentage"`
		Name       value.FlexString `json:"name"`
		Missing    value.FlexString `json:"missing"`
	}

	rq.NoError(json.Unmarshal([]byte(`{"profitable":true,"percentage":52.5,"name":"iPhone","missing":null}`), &doc))
	rq.Equal("true", doc.Profitable.String())
	rq.True(doc.Profitable.Bool())
	rq.Equal("52.5", doc.Percentage.String())
	rq.Equal("iPhone", doc.Name.String())
	rq.Empty(doc.Missing)
	rq.True(value.FlexString("YES").Bool())
	rq.False(value.FlexString("NO - too complex").Bool())
}

func TestFlexStrings(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		input string
		want  value.FlexStrings
	}{
		{name: "List", input: `{"v":["a","b"]}`, want: value.FlexStrings{"a", "b"}},
		{name: "Single string", input: `{"v":"only one"}`, want: value.FlexStrings{"only one"}},
		{name: "Mixed with empties", input: `{"v":["a","",3]}`, want: value.FlexStrings{"a", "3"}},
		{name: "Null", input: `{"v":null}`, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var doc struct {
				V value.FlexStrings `json:"v"`
			}

			rq.NoError(json.Unmarshal([]byte(tc.input), &doc))
			rq.Equal(tc.want, doc.V)
		})
	}
}
