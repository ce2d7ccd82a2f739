package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is a class offered by the school. Users and Subscribers reference
// courses; deleting a course does not touch those references.
type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	MaxStudents int       `gorm:"not null;default:0" json:"max_students"`
	Cost        float64   `gorm:"not null;default:0" json:"cost"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
