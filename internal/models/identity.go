package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Identity is the triple of identifiers that gates every screen except registration.
type Identity struct {
	CustomerUserID string `json:"customerUserId"`
	UserID         string `json:"userId"`
	UserEmail      string `json:"userEmail"`
}

// Complete reports whether all three values are present.
func (i Identity) Complete() bool {
	return strings.TrimSpace(i.CustomerUserID) != "" &&
		strings.TrimSpace(i.UserID) != "" &&
		strings.TrimSpace(i.UserEmail) != ""
}

// FlexID is an identifier the backend sends either as a JSON number or a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex id: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string {
	return string(f)
}
