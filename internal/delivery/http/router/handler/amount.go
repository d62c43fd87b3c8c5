package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"autocrm/internal/util"
)

// Amount is a VND amount field. The finance forms submit amounts either as
// plain JSON numbers or as grouped-thousands strings the way the sales team
// types them ("1.500.000"), so both shapes bind to the same field.
type Amount int64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = 0

		return nil
	}

	if strings.HasPrefix(s, `"`) {
		raw, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		parsed, err := util.ParseAmount(raw)
		if err != nil {
			return err
		}
		*a = Amount(parsed)

		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n)

	return nil
}
