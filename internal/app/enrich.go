package app

import "travela/internal/domain"

const DefaultBookingLink = "https://booking.com"

// PatchBookingLinks returns a copy of g with link set on every hotel. g is not modified.
func PatchBookingLinks(g domain.TravelGuide, link string) domain.TravelGuide {
	hotels := make([]domain.Hotel, len(g.Hotels))
	for i, h := range g.Hotels {
		h.BookingLink = link
		hotels[i] = h
	}
	g.Hotels = hotels
	return g
}
