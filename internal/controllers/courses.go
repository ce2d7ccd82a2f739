package controllers

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/confettischool/backend/internal/models"
	"github.com/confettischool/backend/internal/store"
)

// NewCourses builds the course CRUD resource.
func NewCourses(gw store.Gateway[models.Course], basePath string) *Resource[models.Course] {
	return &Resource[models.Course]{
		entity:       "course",
		basePath:     basePath,
		gateway:      gw,
		newRecord:    newCourse,
		updateFields: courseFields,
	}
}

func newCourse(input map[string]string) (*models.Course, error) {
	fields, err := courseFields(input)
	if err != nil {
		return nil, err
	}
	if err := requireFields(fields, "title", "description"); err != nil {
		return nil, err
	}
	course := &models.Course{
		ID:          uuid.New(),
		Title:       fields["title"].(string),
		Description: fields["description"].(string),
	}
	// maxStudents and cost default to zero when the form omits them.
	if v, ok := fields["max_students"].(int); ok {
		course.MaxStudents = v
	}
	if v, ok := fields["cost"].(float64); ok {
		course.Cost = v
	}
	return course, nil
}

// courseFields picks the declared course fields. Out-of-range numbers are
// rejected outright, never clamped.
func courseFields(input map[string]string) (map[string]any, error) {
	fields := map[string]any{}
	if v, ok := input["title"]; ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, &store.ValidationError{Field: "title", Constraint: "required"}
		}
		fields["title"] = v
	}
	if v, ok := input["description"]; ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, &store.ValidationError{Field: "description", Constraint: "required"}
		}
		fields["description"] = v
	}
	if v, ok := input["maxStudents"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, &store.ValidationError{Field: "maxStudents", Constraint: "must be an integer"}
		}
		if n < 0 {
			return nil, &store.ValidationError{Field: "maxStudents", Constraint: "must not be negative"}
		}
		fields["max_students"] = n
	}
	if v, ok := input["cost"]; ok {
		c, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, &store.ValidationError{Field: "cost", Constraint: "must be a number"}
		}
		if c < 0 {
			return nil, &store.ValidationError{Field: "cost", Constraint: "must not be negative"}
		}
		fields["cost"] = c
	}
	return fields, nil
}
