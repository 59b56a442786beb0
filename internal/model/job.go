package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus represents the lifecycle status of a job. Any status may follow
// any other; there is no enforced transition graph.
type JobStatus string

const (
	JobStatusPlanning   JobStatus = "PLANNING"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCanceled   JobStatus = "CANCELED"
)

// Job represents a contractor-owned job. A job is visible only to the
// contractor that created it and the homeowners listed on it. Deletion is a
// soft delete: DeletedAt and DeletedByUserID are set together and the row is
// never physically removed. DeletedAt is a plain timestamp column:
// single-job lookups must still see deleted rows so the service layer can
// report the already-deleted conflict.
type Job struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	Location        string          `json:"location" gorm:"size:255;not null"`
	Cost            decimal.Decimal `json:"cost" gorm:"type:decimal(20,2);not null"`
	Status          JobStatus       `json:"status" gorm:"type:varchar(20);not null;default:'PLANNING';index"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	CreatedByUserID uint            `json:"created_by_user_id" gorm:"not null;index"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty" gorm:"index"`
	DeletedByUserID *uint           `json:"deleted_by_user_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relations
	CreatedByUser User      `json:"-" gorm:"foreignKey:CreatedByUserID"`
	Homeowners    []User    `json:"-" gorm:"many2many:job_homeowners"`
	Tasks         []JobTask `json:"-" gorm:"foreignKey:JobID"`
}

// JobTask represents a checklist item owned by exactly one job. Tasks are
// created, patched and removed through job updates, and completed through a
// dedicated operation that stamps CompletedAt/CompletedByUserID.
type JobTask struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	JobID             uint            `json:"job_id" gorm:"not null;index"`
	Description       string          `json:"description" gorm:"type:text;not null"`
	Cost              decimal.Decimal `json:"cost" gorm:"type:decimal(20,2);not null"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	CompletedByUserID *uint           `json:"completed_by_user_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
