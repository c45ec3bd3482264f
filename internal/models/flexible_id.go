package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleID decodes an id sent either as a JSON number or a numeric string.
// Zero means the field was absent or empty.
type FlexibleID int

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid id %q", s)
		}
		*id = FlexibleID(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = FlexibleID(n)
	return nil
}

func (id FlexibleID) Int() int {
	return int(id)
}

type DeleteQuestionRequest struct {
	QuestionID FlexibleID `json:"questionid"`
}
