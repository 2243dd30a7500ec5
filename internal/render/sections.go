package render

import "travela/internal/domain"

// Section titles in display order.
const (
	TitleHistory = "History"
	TitleTrivia  = "Interesting Trivia"
	TitlePlaces  = "Must-Visit Places"
	TitleHotels  = "Best Hotels"
	TitleCuisine = "Local Cuisine"
	TitleTips    = "Travel Tips"
	TitlePhotos  = "Photos"
)

type Item struct {
	Title string
	Body  string
	Meta  string // hotel price range
	Link  string // hotel booking link
}

// Section is one rendered block. Text is used by History; everything else
// is a list of items. Photos carries image URLs.
type Section struct {
	Title  string
	Text   string
	Items  []Item
	Photos []string
}

// Sections lays the guide out in fixed order, skipping empty sections.
func Sections(g domain.TravelGuide, photos domain.PhotoSet) []Section {
	var out []Section

	if g.History != "" {
		out = append(out, Section{Title: TitleHistory, Text: g.History})
	}
	if len(g.Trivia) > 0 {
		out = append(out, Section{Title: TitleTrivia, Items: textItems(g.Trivia)})
	}
	if len(g.Places) > 0 {
		items := make([]Item, 0, len(g.Places))
		for _, p := range g.Places {
			items = append(items, Item{Title: p.Name, Body: p.Description})
		}
		out = append(out, Section{Title: TitlePlaces, Items: items})
	}
	if len(g.Hotels) > 0 {
		items := make([]Item, 0, len(g.Hotels))
		for _, h := range g.Hotels {
			items = append(items, Item{Title: h.Name, Meta: h.PriceRange, Link: h.BookingLink})
		}
		out = append(out, Section{Title: TitleHotels, Items: items})
	}
	if len(g.Cuisine) > 0 {
		items := make([]Item, 0, len(g.Cuisine))
		for _, d := range g.Cuisine {
			items = append(items, Item{Title: d.Dish, Body: d.Description})
		}
		out = append(out, Section{Title: TitleCuisine, Items: items})
	}
	if len(g.Tips) > 0 {
		out = append(out, Section{Title: TitleTips, Items: textItems(g.Tips)})
	}
	if len(photos.URLs) > 0 {
		out = append(out, Section{Title: TitlePhotos, Photos: photos.URLs})
	}
	return out
}

func textItems(in []string) []Item {
	items := make([]Item, 0, len(in))
	for _, s := range in {
		items = append(items, Item{Body: s})
	}
	return items
}
