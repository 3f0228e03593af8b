package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	apperrors "github.com/kasubagumummij2024-byte/lapor-maintenance-mij/pkg/util"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	validate = validator.New()
)

func validateQuery(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid query", nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = describe(fe)
	}
	return apperrors.NewValidationError("invalid query", details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "datetime":
		return "must be formatted as " + monthHint(fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func monthHint(layout string) string {
	if layout == "2006-01" {
		return "YYYY-MM"
	}
	return layout
}

// decodeObject parses a JSON object body. An empty body is an empty object.
func decodeObject(body []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil || out == nil {
		return nil, apperrors.NewValidationError("request body must be a JSON object", nil)
	}
	return out, nil
}
