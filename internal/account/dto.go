package account

import (
	"strings"

	"github.com/hosana-alex/leave-management/internal"
)

// RegisterDTO is the request payload for self-service registration.
type RegisterDTO struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Department       string `json:"department"`
	Designation      string `json:"designation"`
	Contacts         string `json:"contacts"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
}

// Validate checks the required registration fields.
func (dto RegisterDTO) Validate() error {
	var missing []string
	if strings.TrimSpace(dto.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(dto.Email) == "" {
		missing = append(missing, "email")
	}
	if dto.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(dto.Department) == "" {
		missing = append(missing, "department")
	}
	if len(missing) > 0 {
		return internal.NewValidationError(
			"Missing required fields: "+strings.Join(missing, ", "),
			internal.ErrCodeMissingField,
		).WithDetails(map[string][]string{"missing_fields": missing})
	}
	if !strings.Contains(dto.Email, "@") {
		return internal.NewValidationError("email is not valid", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateProfileDTO carries the self-service editable fields. Email and role
// are deliberately absent: neither is mutable through this path.
type UpdateProfileDTO struct {
	Name             *string `json:"name,omitempty"`
	Department       *string `json:"department,omitempty"`
	Designation      *string `json:"designation,omitempty"`
	Contacts         *string `json:"contacts,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string `json:"emergency_phone,omitempty"`
}

// Fields maps the set pointers onto column updates.
func (dto UpdateProfileDTO) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Department != nil {
		fields["department"] = *dto.Department
	}
	if dto.Designation != nil {
		fields["designation"] = *dto.Designation
	}
	if dto.Contacts != nil {
		fields["contacts"] = *dto.Contacts
	}
	if dto.EmergencyContact != nil {
		fields["emergency_contact"] = *dto.EmergencyContact
	}
	if dto.EmergencyPhone != nil {
		fields["emergency_phone"] = *dto.EmergencyPhone
	}
	return fields
}

func (dto UpdateProfileDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Department != nil && strings.TrimSpace(*dto.Department) == "" {
		return internal.NewValidationError("department cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// BulkActionDTO is the request payload for bulk admin operations.
type BulkActionDTO struct {
	UserIDs []int64 `json:"user_ids"`
}

func (dto BulkActionDTO) Validate() error {
	if len(dto.UserIDs) == 0 {
		return internal.NewValidationError("user_ids is required", internal.ErrCodeMissingField)
	}
	return nil
}

// BulkFailure reports one failed id in a bulk operation.
type BulkFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// BulkResult reports partial-failure outcomes: one entry per requested id,
// either in Succeeded or in Failed, never silently dropped.
type BulkResult struct {
	Succeeded []int64       `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// RegisterResult is the registration response payload.
type RegisterResult struct {
	Message      string   `json:"message"`
	Status       string   `json:"status"`
	User         *Account `json:"user"`
	AutoApproved bool     `json:"auto_approved"`
}
