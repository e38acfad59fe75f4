package todo

import "strings"

// Validation guards both boundaries: the HTTP handlers validate request
// payloads before calling the repository, and the repository validates again
// so it stays safe to call directly. Checks run in a fixed field order and
// never mutate their input.

// Validate checks every entity invariant, first offending field wins:
// id, userId, title, completed, createdAt, updatedAt.
func (t Todo) Validate() error {
	if t.ID == "" {
		return Validationf("id is required and must be a non-empty string")
	}
	if t.UserID == "" {
		return Validationf("userId is required and must be a non-empty string")
	}
	if strings.TrimSpace(t.Title) == "" {
		return Validationf("title is required and must be a non-empty string")
	}
	if t.CreatedAt == "" {
		return Validationf("createdAt is required and must be a non-empty string")
	}
	if t.UpdatedAt == "" {
		return Validationf("updatedAt is required and must be a non-empty string")
	}
	if t.CreatedAt > t.UpdatedAt {
		return Validationf("updatedAt must not precede createdAt")
	}
	return nil
}

// Validate checks userId then title.
func (dto CreateTodoDTO) Validate() error {
	if dto.UserID == "" {
		return Validationf("userId is required and must be a non-empty string")
	}
	if strings.TrimSpace(dto.Title) == "" {
		return Validationf("title is required and must be a non-empty string")
	}
	return nil
}

// Validate checks the fields that are present. Both absent is valid; a key
// carrying an explicit null is not.
func (dto UpdateTodoDTO) Validate() error {
	if dto.titleNull || (dto.Title != nil && strings.TrimSpace(*dto.Title) == "") {
		return Validationf("title must be a non-empty string when provided")
	}
	if dto.completedNull {
		return Validationf("completed must be a boolean when provided")
	}
	return nil
}
