// Package validation holds the contact form schema: which fields exist,
// which are required and what the client is told when a rule fails.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexora-labs/website-backend/internal/contact/domain"
)

// Form is the contact form payload after type checking.
type Form struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	ProjectType string `json:"projectType"`
	Budget      string `json:"budget"`
	Timeline    string `json:"timeline"`
	Message     string `json:"message" validate:"required,min=10"`
	Locale      string `json:"locale"`
	// Website is the honeypot. Real users never see it.
	Website string `json:"website"`
}

// fieldOrder is the declaration order violations are reported in.
var fieldOrder = []string{
	"firstName", "lastName", "email", "phone", "company",
	"projectType", "budget", "timeline", "message",
}

var messages = map[string]map[string]string{
	"firstName": {"required": "First name is required"},
	"lastName":  {"required": "Last name is required"},
	"email": {
		"required": "Email is required",
		"email":    "Invalid email address",
	},
	"message": {
		"required": "Message is required",
		"min":      "Message must be at least 10 characters",
	},
}

// LocaleNormalizer maps a requested locale onto one the site serves.
// config.SiteConfig implements it.
type LocaleNormalizer interface {
	NormalizeLocale(locale string) string
}

// Schema validates raw contact form payloads.
type Schema struct {
	validate *validator.Validate
	locales  LocaleNormalizer
}

func NewSchema(locales LocaleNormalizer) *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Schema{validate: v, locales: locales}
}

// Parse decodes raw into a Form and validates it. A body that is not a JSON
// object yields domain.ErrMalformedRequest; rule violations yield a
// *domain.ValidationError listing every violated field.
func (s *Schema) Parse(raw []byte) (*Form, error) {
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}

	violations := make(map[string]string)

	str := func(field string) string {
		v, ok := values[field]
		if !ok || v == nil {
			return ""
		}
		sv, ok := v.(string)
		if !ok {
			violations[field] = field + " must be a string"
			return ""
		}
		return sv
	}

	form := &Form{
		FirstName:   str("firstName"),
		LastName:    str("lastName"),
		Email:       str("email"),
		Phone:       str("phone"),
		Company:     str("company"),
		ProjectType: str("projectType"),
		Budget:      str("budget"),
		Timeline:    str("timeline"),
		Message:     str("message"),
		Locale:      str("locale"),
		Website:     honeypot(values["website"]),
	}

	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			field := fe.Field()
			if _, seen := violations[field]; seen {
				continue
			}
			violations[field] = messageFor(field, fe.Tag())
		}
	}

	// A locale of the wrong type is not worth rejecting a lead over.
	delete(violations, "locale")
	form.Locale = s.locales.NormalizeLocale(form.Locale)

	if len(violations) > 0 {
		details := make([]domain.FieldError, 0, len(violations))
		for _, field := range fieldOrder {
			if msg, ok := violations[field]; ok {
				details = append(details, domain.FieldError{Field: field, Message: msg})
			}
		}
		return nil, &domain.ValidationError{Details: details}
	}

	return form, nil
}

// honeypot never produces a violation, so a filled-in trap of any JSON type
// still takes the silent path.
func honeypot(v interface{}) string {
	switch hv := v.(type) {
	case nil:
		return ""
	case string:
		return hv
	default:
		return fmt.Sprint(hv)
	}
}

func messageFor(field, tag string) string {
	if m, ok := messages[field][tag]; ok {
		return m
	}
	return fmt.Sprintf("%s is invalid", field)
}

// IsSpam reports whether the honeypot field was filled in.
func (f *Form) IsSpam() bool {
	return strings.TrimSpace(f.Website) != ""
}
