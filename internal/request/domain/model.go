package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CustomRequest is an inquiry for a bespoke workflow build.
type CustomRequest struct {
	ID                  snowflake.ID `json:"id"`
	Name                string       `json:"name"`
	Email               string       `json:"email"`
	Phone               string       `json:"phone"`
	WorkflowDescription string       `json:"workflow_description"`
	UseCase             string       `json:"use_case"`
	Budget              string       `json:"budget"`
	Timeline            string       `json:"timeline"`
	Status              string       `json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

const (
	StatusPending    = "pending"
	StatusReviewing  = "reviewing"
	StatusQuoted     = "quoted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// KnownStatus reports whether a status value is one the dashboard can set.
func KnownStatus(status string) bool {
	switch status {
	case StatusPending, StatusReviewing, StatusQuoted, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

type SubmitRequest struct {
	Name                string
	Email               string
	Phone               string
	WorkflowDescription string
	UseCase             string
	Budget              string
	Timeline            string
}
