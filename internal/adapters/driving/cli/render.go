package cli

import (
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// renderFormat selects the structured output encoding for a command.
type renderFormat int

const (
	renderHuman renderFormat = iota
	renderJSON
	renderYAML
)

// pickFormat folds the --json/--yaml flags into one format.
func pickFormat(jsonFlag, yamlFlag bool) (renderFormat, error) {
	if jsonFlag && yamlFlag {
		return renderHuman, domain.UsageError("--json and --yaml are mutually exclusive")
	}
	switch {
	case jsonFlag:
		return renderJSON, nil
	case yamlFlag:
		return renderYAML, nil
	}
	return renderHuman, nil
}

// render writes v as indented JSON or YAML. Every structured view in the
// command tree goes through here; the shapes differ, the encoding never
// does.
func render(w io.Writer, format renderFormat, v any) error {
	switch format {
	case renderJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case renderYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	}
	return domain.UsageError("no structured format selected")
}

// errorDetail shapes err for machine-readable output.
func errorDetail(err error) domain.ErrorDetail {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return domain.NewErrorDetail(appErr)
	}
	return domain.ErrorDetail{Code: "error", Message: err.Error()}
}
