package client

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/school-directory/internal/validator"
)

const (
	MsgSubmitFailed  = "Failed to add school. Please try again."
	MsgSubmitSuccess = "School has been added successfully."

	DefaultBannerTimeout = 5 * time.Second
)

type SubmitResult int

const (
	SubmitInvalid SubmitResult = iota
	SubmitFailed
	SubmitSucceeded
)

// CreateForm holds the draft and feedback of the add-school form
type CreateForm struct {
	Draft validator.SchoolCreateRequest

	// Errors maps a field to the reason it was rejected locally
	Errors map[string]string
	// Failure is set when the backend rejected or never answered the submit
	Failure    string
	Submitting bool

	banner        string
	bannerUntil   time.Time
	bannerTimeout time.Duration

	validator *validator.Validator
	now       func() time.Time
}

type FormOption func(*CreateForm)

// WithClock replaces time.Now, for deterministic banner expiry
func WithClock(now func() time.Time) FormOption {
	return func(f *CreateForm) {
		f.now = now
	}
}

// WithBannerTimeout overrides how long the success banner stays up
func WithBannerTimeout(d time.Duration) FormOption {
	return func(f *CreateForm) {
		if d > 0 {
			f.bannerTimeout = d
		}
	}
}

func NewCreateForm(v *validator.Validator, opts ...FormOption) *CreateForm {
	f := &CreateForm{
		Errors:        map[string]string{},
		bannerTimeout: DefaultBannerTimeout,
		validator:     v,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Set updates one field and clears its error
func (f *CreateForm) Set(field, value string) error {
	switch field {
	case "name":
		f.Draft.Name = value
	case "address":
		f.Draft.Address = value
	case "city":
		f.Draft.City = value
	case "state":
		f.Draft.State = value
	case "contact":
		f.Draft.Contact = value
	case "image":
		f.Draft.Image = value
	case "email_id":
		f.Draft.EmailID = value
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	delete(f.Errors, field)
	return nil
}

// Submit validates locally and only then calls the API
func (f *CreateForm) Submit(ctx context.Context, api SchoolAPI) SubmitResult {
	f.Failure = ""

	if errs := f.validator.ValidateSchoolFields(&f.Draft); len(errs) > 0 {
		f.Errors = errs.AsMap()
		return SubmitInvalid
	}
	f.Errors = map[string]string{}

	f.Submitting = true
	defer func() { f.Submitting = false }()

	draft := f.Draft
	if _, err := api.CreateSchool(ctx, &draft); err != nil {
		f.Failure = MsgSubmitFailed
		return SubmitFailed
	}

	f.Draft = validator.SchoolCreateRequest{}
	f.banner = MsgSubmitSuccess
	f.bannerUntil = f.now().Add(f.bannerTimeout)
	return SubmitSucceeded
}

// Banner returns the success message while it has not expired
func (f *CreateForm) Banner() (string, bool) {
	if f.banner == "" || !f.now().Before(f.bannerUntil) {
		return "", false
	}
	return f.banner, true
}

// BannerRemaining is how long the banner has left, zero once dismissed
func (f *CreateForm) BannerRemaining() time.Duration {
	if _, ok := f.Banner(); !ok {
		return 0
	}
	return f.bannerUntil.Sub(f.now())
}

func (f *CreateForm) DismissBanner() {
	f.banner = ""
	f.bannerUntil = time.Time{}
}
