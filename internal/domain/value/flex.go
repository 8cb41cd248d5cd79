package value

import (
	"bytes"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// FlexString decodes a JSON string, number, boolean or null into text. Model
// output does not always respect the requested types.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err //nolint:wrapcheck
		}

		*f = FlexString(s)
	default:
		*f = FlexString(data)
	}

	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Bool interprets yes/true style answers.
func (f FlexString) Bool() bool {
	b, err := strconv.ParseBool(string(f))
	if err == nil {
		return b
	}

	switch string(f) {
	case "YES", "Yes", "yes", "Y", "y":
		return true
	}

	return false
}

// FlexStrings decodes either a list or a single value into a list of strings.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	if data[0] != '[' {
		var one FlexString
		if err := one.UnmarshalJSON(data); err != nil {
			return err
		}

		*f = FlexStrings{one.String()}

		return nil
	}

	var items []FlexString
	if err := json.Unmarshal(data, &items); err != nil {
		return err //nolint:wrapcheck
	}

	out := make(FlexStrings, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item.String())
		}
	}

	*f = out

	return nil
}
