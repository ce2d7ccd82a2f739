package controllers

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/confettischool/backend/internal/models"
	"github.com/confettischool/backend/internal/store"
)

// NewSubscribers builds the subscriber CRUD resource.
func NewSubscribers(gw store.Gateway[models.Subscriber], basePath string) *Resource[models.Subscriber] {
	return &Resource[models.Subscriber]{
		entity:       "subscriber",
		basePath:     basePath,
		gateway:      gw,
		newRecord:    newSubscriber,
		updateFields: subscriberFields,
	}
}

func newSubscriber(input map[string]string) (*models.Subscriber, error) {
	fields, err := subscriberFields(input)
	if err != nil {
		return nil, err
	}
	if err := requireFields(fields, "name", "email", "zip_code"); err != nil {
		return nil, err
	}
	return &models.Subscriber{
		ID:      uuid.New(),
		Name:    fields["name"].(string),
		Email:   fields["email"].(string),
		ZipCode: fields["zip_code"].(int),
	}, nil
}

// subscriberFields picks only the declared subscriber fields from the payload;
// anything else in the input is dropped.
func subscriberFields(input map[string]string) (map[string]any, error) {
	fields := map[string]any{}
	if v, ok := input["name"]; ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, &store.ValidationError{Field: "name", Constraint: "required"}
		}
		fields["name"] = v
	}
	if v, ok := input["email"]; ok {
		v = normalizeEmail(v)
		if v == "" {
			return nil, &store.ValidationError{Field: "email", Constraint: "required"}
		}
		fields["email"] = v
	}
	if v, ok := input["zipCode"]; ok {
		zip, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, &store.ValidationError{Field: "zipCode", Constraint: "must be an integer"}
		}
		if zip < 10000 || zip > 99999 {
			return nil, &store.ValidationError{Field: "zipCode", Constraint: "must be between 10000 and 99999"}
		}
		fields["zip_code"] = zip
	}
	return fields, nil
}

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func requireFields(fields map[string]any, names ...string) error {
	for _, name := range names {
		if _, ok := fields[name]; !ok {
			return &store.ValidationError{Field: name, Constraint: "required"}
		}
	}
	return nil
}
