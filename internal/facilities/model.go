package facilities

import "github.com/campusweb/portal-backend/pkg/enums"

// Facility is a campus amenity (cafeteria, library, gym) with
// crowd-sourced ratings.
type Facility struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Status        enums.FacilityStatus `json:"status"`
	Hours         string               `json:"hours"`
	Rating        int                  `json:"rating,omitempty"`
	TotalRatings  int                  `json:"totalRatings"`
	AverageRating float64              `json:"averageRating"`
}

func (f Facility) DocumentKey() string { return f.ID }

func (f Facility) WithDocumentKey(key string) Facility {
	f.ID = key
	return f
}
