package client

import (
	"context"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

const (
	PlaceholderImage = "https://via.placeholder.com/400x220/667eea/ffffff?text=School+Image"

	MsgLoadFailed = "Failed to load schools. Please check your connection."
)

type ListState int

const (
	ListLoading ListState = iota
	ListFailed
	ListEmpty
	ListLoaded
)

func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListFailed:
		return "failed"
	case ListEmpty:
		return "empty"
	case ListLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// SchoolCard is one rendered school
type SchoolCard struct {
	ID       uint
	Name     string
	Address  string
	City     string
	State    string
	Contact  string
	EmailID  string
	ImageURL string
	// HasImage is false when ImageURL is the placeholder
	HasImage bool
}

// CardFor renders a school, substituting the placeholder for an empty image
func CardFor(school models.School) SchoolCard {
	card := SchoolCard{
		ID:       school.ID,
		Name:     school.Name,
		Address:  school.Address,
		City:     school.City,
		State:    school.State,
		Contact:  school.Contact,
		EmailID:  school.EmailID,
		ImageURL: school.Image,
		HasImage: school.Image != "",
	}
	if !card.HasImage {
		card.ImageURL = PlaceholderImage
	}
	return card
}

// ListView holds the state of the school list page
type ListView struct {
	State   ListState
	Cards   []SchoolCard
	Message string
	Err     error
}

func NewListView() *ListView {
	return &ListView{State: ListLoading}
}

// Load issues List and moves the view out of the loading state.
// Calling it again is the retry.
func (v *ListView) Load(ctx context.Context, api SchoolAPI) {
	v.State = ListLoading
	v.Cards = nil
	v.Message = ""
	v.Err = nil

	schools, err := api.ListSchools(ctx)
	if err != nil {
		v.State = ListFailed
		v.Message = MsgLoadFailed
		v.Err = err
		return
	}

	if len(schools) == 0 {
		v.State = ListEmpty
		return
	}

	v.Cards = make([]SchoolCard, 0, len(schools))
	for _, school := range schools {
		v.Cards = append(v.Cards, CardFor(school))
	}
	v.State = ListLoaded
}

// Count is the number of cards shown
func (v *ListView) Count() int {
	return len(v.Cards)
}
