package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/confettischool/backend/internal/linker"
	"github.com/confettischool/backend/internal/models"
	"github.com/confettischool/backend/internal/store"
)

// NewUsers builds the user CRUD resource. Both writes route through the
// linker before the row is committed, so a user is never stored with its
// subscriber link undecided.
func NewUsers(gw store.Gateway[models.User], lk *linker.Linker, basePath string) *Resource[models.User] {
	return &Resource[models.User]{
		entity:       "user",
		basePath:     basePath,
		gateway:      gw,
		newRecord:    newUser,
		updateFields: userFields,
		beforeCreate: func(ctx context.Context, user *models.User) error {
			return lk.LinkSubscriber(ctx, user)
		},
		beforeUpdate: func(ctx context.Context, id uuid.UUID, fields map[string]any) error {
			user, err := gw.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if email, ok := fields["email"].(string); ok {
				user.Email = email
			}
			hadLink := user.SubscribedAccountID != nil
			if err := lk.LinkSubscriber(ctx, user); err != nil {
				return err
			}
			if !hadLink && user.SubscribedAccountID != nil {
				fields["subscribed_account_id"] = user.SubscribedAccountID
			}
			return nil
		},
	}
}

func newUser(input map[string]string) (*models.User, error) {
	fields, err := userFields(input)
	if err != nil {
		return nil, err
	}
	if err := requireFields(fields, "email", "username", "password_hash"); err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        fields["email"].(string),
		Username:     fields["username"].(string),
		PasswordHash: fields["password_hash"].(string),
	}
	if v, ok := fields["first_name"].(string); ok {
		user.FirstName = v
	}
	if v, ok := fields["last_name"].(string); ok {
		user.LastName = v
	}
	if v, ok := fields["phone_number"].(string); ok {
		user.PhoneNumber = v
	}
	if v, ok := fields["profile_img"].(string); ok {
		user.ProfileImg = v
	}
	return user, nil
}

// userFields picks the declared user fields from the payload. The password is
// hashed here so the rest of the system only ever sees the credential.
func userFields(input map[string]string) (map[string]any, error) {
	fields := map[string]any{}
	if v, ok := input["name.first"]; ok {
		fields["first_name"] = strings.TrimSpace(v)
	}
	if v, ok := input["name.last"]; ok {
		fields["last_name"] = strings.TrimSpace(v)
	}
	if v, ok := input["email"]; ok {
		v = normalizeEmail(v)
		if v == "" {
			return nil, &store.ValidationError{Field: "email", Constraint: "required"}
		}
		fields["email"] = v
	}
	if v, ok := input["username"]; ok {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return nil, &store.ValidationError{Field: "username", Constraint: "required"}
		}
		fields["username"] = v
	}
	if v, ok := input["phoneNumber"]; ok {
		fields["phone_number"] = strings.TrimSpace(v)
	}
	if v, ok := input["profileImg"]; ok {
		fields["profile_img"] = strings.TrimSpace(v)
	}
	if v, ok := input["password"]; ok {
		if strings.TrimSpace(v) == "" {
			return nil, &store.ValidationError{Field: "password", Constraint: "required"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password_hash"] = string(hash)
	}
	return fields, nil
}
