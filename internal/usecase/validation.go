package usecase

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateSavePartialInput(input SavePartialInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.TenantID) == "" {
		errors = append(errors, ValidationError{"client_id", "is required"})
	}

	// Sem lead_id é criação: o mínimo para existir um lead é nome + telefone.
	if input.LeadID == "" {
		if strings.TrimSpace(input.Name) == "" {
			errors = append(errors, ValidationError{"name", "is required to create a lead"})
		}
		if strings.TrimSpace(input.Phone) == "" {
			errors = append(errors, ValidationError{"phone", "is required to create a lead"})
		}
	}

	return errors
}

func ValidateSubmitLeadInput(input SubmitLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.TenantID) == "" {
		errors = append(errors, ValidationError{"client_id", "is required"})
	}
	if input.FormData == nil {
		errors = append(errors, ValidationError{"form_data", "is required"})
	}

	return errors
}

func joinValidationErrors(errs []ValidationError) string {
	msg := "validation failed: "
	for _, e := range errs {
		msg += e.Field + " (" + e.Message + "), "
	}
	return strings.TrimSuffix(msg, ", ")
}

// parseStepLabel extrai o dígito final de rótulos como "step_2".
// Sem dígito, assume 0.
func parseStepLabel(label string) int {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0
	}
	last := label[len(label)-1]
	if last < '0' || last > '9' {
		return 0
	}
	return int(last - '0')
}
