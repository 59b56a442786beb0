package model

import "time"

// JobChatMessage is a single message in a job's chat. Messages are append
// only: never edited, never deleted, ordered by creation.
type JobChatMessage struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	JobID           uint      `json:"job_id" gorm:"not null;index"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	CreatedByUserID uint      `json:"created_by_user_id" gorm:"not null;index"`
	CreatedAt       time.Time `json:"created_at"`
}
