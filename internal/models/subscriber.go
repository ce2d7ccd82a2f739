package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subscriber is a newsletter signup. It exists independently of any User; the
// linker attaches it to a User sharing the same email at save time.
type Subscriber struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	ZipCode   int       `json:"zip_code"`
	Courses   []Course  `gorm:"many2many:subscriber_courses" json:"courses,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Info returns a one-line summary used in admin views and notifications.
func (s *Subscriber) Info() string {
	return fmt.Sprintf("Name: %s Email: %s Zip Code: %d", s.Name, s.Email, s.ZipCode)
}
