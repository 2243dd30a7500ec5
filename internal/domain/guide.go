package domain

import "strings"

// GuideQuery is a validated, trimmed location name. Build it with NewGuideQuery.
type GuideQuery struct{ location string }

func NewGuideQuery(raw string) (GuideQuery, error) {
	loc := strings.TrimSpace(raw)
	if loc == "" {
		return GuideQuery{}, ErrEmptyQuery
	}
	return GuideQuery{location: loc}, nil
}

func (q GuideQuery) Location() string { return q.location }

// PhotoQuery is the search phrase sent to the image service.
func (q GuideQuery) PhotoQuery() string { return q.location + " tourist attractions" }

type TravelGuide struct {
	History string   `json:"history"`
	Trivia  []string `json:"trivia"`
	Places  []Place  `json:"places"`
	Hotels  []Hotel  `json:"hotels"`
	Cuisine []Dish   `json:"cuisine"`
	Tips    []string `json:"tips"`
}

type Place struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Hotel.BookingLink is only set by enrichment, never by extraction.
type Hotel struct {
	Name        string `json:"name"`
	PriceRange  string `json:"priceRange"`
	BookingLink string `json:"bookingLink,omitempty"`
}

type Dish struct {
	Dish        string `json:"dish"`
	Description string `json:"description"`
}

type PhotoSet struct {
	Query string   `json:"query"`
	URLs  []string `json:"urls"`
}

// GuideResult is what one successful pipeline run produces. Notices carry
// soft failures that did not abort the run.
type GuideResult struct {
	Location string      `json:"location"`
	Guide    TravelGuide `json:"guide"`
	Photos   PhotoSet    `json:"photos"`
	Notices  []string    `json:"notices,omitempty"`
}
