package domain

import (
	"context"
	"time"
)

// CollectionContactSubmissions is the document-store collection that holds
// every accepted contact form submission.
const CollectionContactSubmissions = "contactSubmissions"

// ContactSubmission is a contact form submission as persisted by the store.
// Optional fields left empty are omitted from the stored document.
type ContactSubmission struct {
	FirstName   string    `json:"firstName" firestore:"firstName"`
	LastName    string    `json:"lastName" firestore:"lastName"`
	Email       string    `json:"email" firestore:"email"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Company     string    `json:"company,omitempty" firestore:"company,omitempty"`
	ProjectType string    `json:"projectType,omitempty" firestore:"projectType,omitempty"`
	Budget      string    `json:"budget,omitempty" firestore:"budget,omitempty"`
	Timeline    string    `json:"timeline,omitempty" firestore:"timeline,omitempty"`
	Message     string    `json:"message" firestore:"message"`
	Locale      string    `json:"locale" firestore:"locale"`
	SubmittedAt time.Time `json:"submittedAt" firestore:"submittedAt"`
	IPAddress   string    `json:"ipAddress" firestore:"ipAddress"`
	UserAgent   string    `json:"userAgent" firestore:"userAgent"`
	Read        bool      `json:"read" firestore:"read"`
}

// FullName joins first and last name.
func (s *ContactSubmission) FullName() string {
	return s.FirstName + " " + s.LastName
}

// RequestMeta carries the request headers the handler enriches submissions with.
type RequestMeta struct {
	ForwardedFor string
	UserAgent    string
}

// SubmissionStore is the document store the handler persists into.
type SubmissionStore interface {
	InsertOne(ctx context.Context, collection string, doc *ContactSubmission) (string, error)
}

// SubmissionCounter reports submission counts for the admin digest.
type SubmissionCounter interface {
	CountSince(ctx context.Context, collection string, since time.Time) (int, error)
	CountUnread(ctx context.Context, collection string) (int, error)
}

// Known project categories offered by the contact form. Free text is
// accepted as well.
const (
	ProjectWebsite     = "website"
	ProjectWebApp      = "web-app"
	ProjectMobileApp   = "mobile-app"
	ProjectEcommerce   = "ecommerce"
	ProjectBranding    = "branding"
	ProjectSEO         = "seo"
	ProjectMaintenance = "maintenance"
	ProjectOther       = "other"
)

var projectLabels = map[string]string{
	ProjectWebsite:     "Website",
	ProjectWebApp:      "Web Application",
	ProjectMobileApp:   "Mobile App",
	ProjectEcommerce:   "E-commerce",
	ProjectBranding:    "Branding",
	ProjectSEO:         "SEO",
	ProjectMaintenance: "Maintenance & Support",
	ProjectOther:       "Other",
}

// ProjectLabel returns the display label for a known category, or the raw
// value for free text.
func ProjectLabel(projectType string) string {
	if label, ok := projectLabels[projectType]; ok {
		return label
	}
	return projectType
}
