package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectLabel(t *testing.T) {
	assert.Equal(t, "Web Application", ProjectLabel(ProjectWebApp))
	assert.Equal(t, "Custom CRM", ProjectLabel("Custom CRM"))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Details: []FieldError{
		{Field: "firstName", Message: "First name is required"},
		{Field: "email", Message: "Invalid email address"},
	}}
	assert.Equal(t, "validation failed: firstName: First name is required; email: Invalid email address", err.Error())
}
