package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rdb-forms/rdb-app-sheets/log"
	"github.com/rdb-forms/rdb-app-sheets/submission"
)

var SubmitCmd = Submit{
	values: map[string]*string{},
	file:   "",
}

// Submit appends a single record from the command line, e.g. to backfill a submission
// that failed while the service was misconfigured.
type Submit struct {
	values map[string]*string
	file   string
}

func (s *Submit) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Appends a single submission to the worksheet",
		Example: `  rdb-app-sheets submit --branch X --name A --crm 1 --email a@b.com --mbti INTJ --description ok
  rdb-app-sheets --debug submit --file submission.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.Execute(cmd)
		},
	}

	for _, field := range submission.Fields {
		v := ""
		s.values[field] = &v
		cmd.Flags().StringVar(s.values[field], strings.ToLower(field), "", fmt.Sprintf("%v field value", field))
	}

	cmd.Flags().StringVar(&s.file, "file", s.file, "JSON file with the submission (same format as the /api/submit request body)")

	return cmd
}

func (s *Submit) Execute(cmd *cobra.Command) error {
	cfg, err := load()
	if err != nil {
		return err
	}

	fields, err := s.fields(cmd)
	if err != nil {
		return err
	}

	if err := newHandler(cfg).Submit(cmd.Context(), fields); err != nil {
		var v *submission.ValidationError
		if errors.As(err, &v) {
			return fmt.Errorf("%v (%v)", v, v.Detail())
		}

		return fmt.Errorf("error saving to sheet (%w)", err)
	}

	log.Infof("Appended submission to worksheet %v", cfg.Worksheet)

	return nil
}

// fields returns the submitted fields from the JSON file, overridden by any field flags
// that were set. Unset flags are left out so that missing fields fail validation.
func (s *Submit) fields(cmd *cobra.Command) (map[string]any, error) {
	fields := map[string]any{}

	if strings.TrimSpace(s.file) != "" {
		b, err := os.ReadFile(s.file)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, fmt.Errorf("invalid submission file %v (%w)", s.file, err)
		} else if fields == nil {
			fields = map[string]any{}
		}
	}

	for _, field := range submission.Fields {
		if cmd.Flags().Changed(strings.ToLower(field)) {
			fields[field] = *s.values[field]
		}
	}

	return fields, nil
}
