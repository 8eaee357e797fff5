package wizard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"nr6/internal/domain"
)

// DecodeStep parses a step form body. Absent fields decode to their zero
// value, which the step schema then accepts or rejects. Wrong JSON types are
// reported as field validation errors.
func DecodeStep(step Step, raw []byte) (StepInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var in StepInput
	var err error
	switch step {
	case StepProperty:
		var v PropertyInput
		err = json.Unmarshal(raw, &v)
		in = v
	case StepIncome:
		var v IncomeInput
		err = json.Unmarshal(raw, &v)
		in = v
	case StepExpenses:
		var v ExpensesInput
		err = json.Unmarshal(raw, &v)
		in = v
	case StepContact:
		var v ContactInput
		err = json.Unmarshal(raw, &v)
		in = v
	default:
		return nil, fmt.Errorf("%w: step %d takes no input", domain.ErrStepMismatch, step)
	}
	if err == nil {
		return in, nil
	}

	var ve *ValidationError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "_"
		}
		ve = ve.add(field, "Expected "+kindName(typeErr.Type.Kind()))
	} else {
		ve = ve.add("_", "Request body is not valid JSON")
	}
	ve.Step = step
	return nil, ve
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "true or false"
	default:
		return "text"
	}
}
