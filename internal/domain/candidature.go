package domain

// Candidature is one applicant submission from the recruiting funnel.
// Only FullName, Email and Phone are mandatory; the rest is free-form.
type Candidature struct {
	FullName        string
	Email           string
	Phone           string
	Age             string
	YearsExperience string
	Software        string
	Portfolio       string
	Availability    string
	StartDate       string
	Message         string
}
