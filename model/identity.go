package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// decodeWithIdentity unmarshals data into dst and, when the "_id" key left *id
// empty, falls back to the plain "id" key. Numeric ids are kept as their text.
func decodeWithIdentity(data []byte, dst interface{}, id *string) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if *id != "" {
		return nil
	}
	var alt struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &alt); err != nil {
		return err
	}
	*id = identityText(alt.ID)
	return nil
}

func identityText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}
