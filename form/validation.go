package form

import (
	"strings"
)

// FieldError is one failed client-side check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed check so all of them show at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) UserMessage() string { return e.Error() }

// Checks accumulates field errors.
type Checks struct {
	fields []FieldError
}

// Required fails when value is blank.
func (c *Checks) Required(field, label, value string) *Checks {
	if strings.TrimSpace(value) == "" {
		c.Add(field, label+" is required")
	}
	return c
}

// Check fails with message when ok is false.
func (c *Checks) Check(ok bool, field, message string) *Checks {
	if !ok {
		c.Add(field, message)
	}
	return c
}

func (c *Checks) Add(field, message string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
}

// Err returns a *ValidationError, or nil when every check passed.
func (c *Checks) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: append([]FieldError(nil), c.fields...)}
}
