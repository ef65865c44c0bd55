package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Workflow is a purchasable automation workflow. Definition holds the
// artifact delivered to buyers; price is in major currency units with two
// decimals.
type Workflow struct {
	ID          snowflake.ID   `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Category    string         `json:"category"`
	Icon        string         `json:"icon"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Tags        datatypes.JSON `json:"tags"`
	Definition  datatypes.JSON `json:"-"`
	IsActive    bool           `json:"is_active"`
	Downloads   int64          `json:"downloads"`
	Revenue     float64        `json:"revenue"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateWorkflowRequest struct {
	Name        string
	Category    string
	Icon        string
	Description string
	Price       string
	Tags        []string
	Definition  json.RawMessage
}

type UpdateWorkflowRequest struct {
	Name        *string
	Category    *string
	Icon        *string
	Description *string
	Price       *string
	Tags        []string
	Definition  json.RawMessage
	IsActive    *bool
}
