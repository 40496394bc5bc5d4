package validator

// SchoolCreateRequest is the candidate record accepted by Create.
// The validate tags are the one place the school rules are declared.
type SchoolCreateRequest struct {
	Name    string `json:"name" form:"name" validate:"notblank"`
	Address string `json:"address" form:"address" validate:"notblank"`
	City    string `json:"city" form:"city" validate:"notblank"`
	State   string `json:"state" form:"state" validate:"notblank"`
	Contact string `json:"contact" form:"contact" validate:"notblank,school_contact"`
	Image   string `json:"image" form:"image"`
	EmailID string `json:"email_id" form:"email_id" validate:"notblank,school_email"`
}
