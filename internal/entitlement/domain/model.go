package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entitlement records the right to download a workflow. All-access rows have
// a null workflow id and cover the whole catalog.
type Entitlement struct {
	ID            snowflake.ID  `json:"id"`
	CustomerEmail string        `json:"customer_email"`
	WorkflowID    *snowflake.ID `json:"workflow_id,omitempty"`
	AllAccess     bool          `json:"all_access"`
	SaleReference string        `json:"sale_reference"`
	CreatedAt     time.Time     `json:"created_at"`
}
