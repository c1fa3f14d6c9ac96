package submission

import (
	"fmt"
)

// Fields lists the required form fields in worksheet column order.
var Fields = []string{"Branch", "Name", "CRM", "Email", "MBTI", "Description"}

// Record is a single validated form submission.
type Record struct {
	Branch      string
	Name        string
	CRM         string
	Email       string
	MBTI        string
	Description string
}

// Parse checks that every required field is present and builds a Record from the
// submitted values. Empty values are accepted, missing keys are not.
func Parse(fields map[string]any) (Record, error) {
	missing := []string{}
	for _, k := range Fields {
		if _, ok := fields[k]; !ok {
			missing = append(missing, k)
		}
	}

	if len(missing) > 0 {
		return Record{}, &ValidationError{Missing: missing}
	}

	return Record{
		Branch:      text(fields["Branch"]),
		Name:        text(fields["Name"]),
		CRM:         text(fields["CRM"]),
		Email:       text(fields["Email"]),
		MBTI:        text(fields["MBTI"]),
		Description: text(fields["Description"]),
	}, nil
}

// Row returns the record values in worksheet column order.
func (r Record) Row() []string {
	return []string{
		r.Branch,
		r.Name,
		r.CRM,
		r.Email,
		r.MBTI,
		r.Description,
	}
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""

	case string:
		return s

	default:
		return fmt.Sprintf("%v", s)
	}
}
