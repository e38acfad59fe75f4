package todo

import (
	"encoding/json"
	"time"
)

// Status is the three-way listing filter.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a status query value. Callers default to StatusAll
// when the parameter is absent; a present value must be one of the three,
// so empty is rejected here.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAll, StatusActive, StatusCompleted:
		return Status(s), nil
	default:
		return "", Validationf("status must be all, active, or completed")
	}
}

// Todo is the persisted entity. Timestamps are RFC 3339 strings in UTC so
// they compare consistently as strings.
type Todo struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateTodoDTO is the payload accepted by Repository.Create. The server
// assigns id, completed and timestamps.
type CreateTodoDTO struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
}

// UpdateTodoDTO is the partial payload accepted by Repository.Update.
// Nil fields are left untouched; both nil is a valid no-op that still
// refreshes UpdatedAt. An explicit JSON null is not the same as an absent
// key: it is recorded during unmarshaling and rejected by Validate.
type UpdateTodoDTO struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`

	titleNull     bool
	completedNull bool
}

func (dto *UpdateTodoDTO) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, hasTitle := keys["title"]
	_, hasCompleted := keys["completed"]
	*dto = UpdateTodoDTO{
		Title:         raw.Title,
		Completed:     raw.Completed,
		titleNull:     hasTitle && raw.Title == nil,
		completedNull: hasCompleted && raw.Completed == nil,
	}
	return nil
}

// timeLayout is fixed-width (millisecond precision) so UTC timestamps
// compare consistently as strings.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func now() string {
	return time.Now().UTC().Format(timeLayout)
}
