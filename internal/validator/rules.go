package validator

import "regexp"

// Tags registered on the underlying go-playground validator.
const (
	TagNotBlank = "notblank"
	TagContact  = "school_contact"
	TagEmail    = "school_email"
)

// MsgAllFieldsRequired is the single rejection reported when any required field is blank.
const MsgAllFieldsRequired = "All fields are required"

var (
	// ContactPattern accepts exactly ten ASCII digits, no sign or separators.
	ContactPattern = regexp.MustCompile(`^\d{10}$`)

	// EmailPattern is a shape check (local@domain.tld), not full address validation.
	EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldRule holds the user-facing messages for one wire field.
type FieldRule struct {
	Field           string
	RequiredMessage string
	FormatMessage   string
}

// SchoolRules lists every required school field in reporting order.
// Format checks run in this order too, so contact is reported before email_id.
var SchoolRules = []FieldRule{
	{Field: "name", RequiredMessage: "School name is required"},
	{Field: "address", RequiredMessage: "Address is required"},
	{Field: "city", RequiredMessage: "City is required"},
	{Field: "state", RequiredMessage: "State is required"},
	{Field: "contact", RequiredMessage: "Contact is required", FormatMessage: "Contact must be 10 digits"},
	{Field: "email_id", RequiredMessage: "Email is required", FormatMessage: "Invalid email format"},
}

// RuleFor returns the rule of a wire field.
func RuleFor(field string) (FieldRule, bool) {
	for _, r := range SchoolRules {
		if r.Field == field {
			return r, true
		}
	}
	return FieldRule{}, false
}

func ruleIndex(field string) int {
	for i, r := range SchoolRules {
		if r.Field == field {
			return i
		}
	}
	return len(SchoolRules)
}

// IsValidContact reports whether s is a well-formed contact number.
func IsValidContact(s string) bool {
	return ContactPattern.MatchString(s)
}

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return EmailPattern.MatchString(s)
}
