package wizard

import (
	"sort"
	"strings"
)

// FieldError is one inline validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a forward transition. It carries one message per
// failing field, in the order the failures were found.
type ValidationError struct {
	Step   Step         `json:"step"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages returns field name to message, keeping the first message per field.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

// FieldNames returns the sorted set of failing fields.
func (e *ValidationError) FieldNames() []string {
	msgs := e.Messages()
	names := make([]string, 0, len(msgs))
	for k := range msgs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// add appends a field message and is safe on a nil receiver.
func (e *ValidationError) add(field, message string) *ValidationError {
	if e == nil {
		e = &ValidationError{}
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// orNil avoids returning a typed nil inside a non-nil error interface.
func (e *ValidationError) orNil() error {
	if e == nil {
		return nil
	}
	return e
}
