package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered member of the site. PasswordHash carries the bcrypt
// credential; the raw password never survives field shaping.
type User struct {
	ID                  uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName           string      `gorm:"size:100" json:"first_name"`
	LastName            string      `gorm:"size:100" json:"last_name"`
	Email               string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username            string      `gorm:"size:100;not null;uniqueIndex" json:"username"`
	PhoneNumber         string      `gorm:"size:30" json:"phone_number"`
	PasswordHash        string      `gorm:"not null" json:"-"`
	ProfileImg          string      `gorm:"size:255" json:"profile_img"`
	SubscribedAccountID *uuid.UUID  `gorm:"type:uuid;index" json:"subscribed_account_id"`
	SubscribedAccount   *Subscriber `gorm:"foreignKey:SubscribedAccountID" json:"-"`
	Courses             []Course    `gorm:"many2many:user_courses" json:"courses,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// FullName joins the optional first and last names.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
