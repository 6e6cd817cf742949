package hrfco

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexFloat decodes upstream numeric fields that arrive as JSON numbers,
// numeric strings, empty strings or placeholders like " " and "-".
// Unparseable input decodes to a nil value rather than an error, because
// one dirty field must not discard the whole record.
type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}
	if s == "" || s == "-" || strings.EqualFold(s, "n/a") {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.value = &v
	return nil
}
