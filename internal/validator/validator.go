package validator

// Validator is the entry point used by services and the client form.
// It is safe for concurrent use.
type Validator struct {
	business *BusinessValidator
}

// New creates a validator with the school rules registered
func New() *Validator {
	return &Validator{business: NewBusinessValidator()}
}

// ValidateSchool is the service-side check. It returns nil or a *PolicyError.
func (v *Validator) ValidateSchool(req *SchoolCreateRequest) error {
	return v.business.ValidateSchoolCreate(req)
}

// ValidateSchoolFields is the per-field check used before submitting a form.
func (v *Validator) ValidateSchoolFields(req *SchoolCreateRequest) ValidationErrors {
	return v.business.ValidateSchoolFields(req)
}
