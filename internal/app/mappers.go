package app

import (
	"strconv"
	"strings"

	"travela/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Models drift from the requested schema; accept the spellings seen in practice.
var guideAliases = map[string][]string{
	"history": {"history", "brief_history", "briefHistory", "overview"},
	"trivia":  {"trivia", "facts", "interesting_facts", "interestingFacts"},
	"places":  {"places", "must_visit", "mustVisit", "attractions"},
	"hotels":  {"hotels", "recommended_hotels", "recommendedHotels"},
	"cuisine": {"cuisine", "dishes", "local_dishes", "localDishes", "food"},
	"tips":    {"tips", "travel_tips", "travelTips"},
}

var itemAliases = map[string][]string{
	"name":        {"name", "title", "place"},
	"description": {"description", "desc", "details", "summary"},
	"price_range": {"priceRange", "price_range", "price", "priceLevel"},
	"dish":        {"dish", "name", "title"},
	"text":        {"fact", "tip", "text", "description", "value"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// scalarString renders strings and numbers verbatim; ok is false for
// anything that is not a JSON scalar.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// aliasString: value of the first alias present as a scalar, "" when none is.
func aliasString(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s, ok := scalarString(lookupAny(m, p)); ok {
			return s
		}
	}
	return ""
}

// firstSlice: first alias that holds a JSON array.
func firstSlice(m map[string]any, aliases map[string][]string, key string) []any {
	for _, p := range aliases[key] {
		if raw, ok := lookupAny(m, p).([]any); ok {
			return raw
		}
	}
	return nil
}

// textItems keeps every scalar or {fact/tip/text} element, empty ones included.
func textItems(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, aliasString(obj, itemAliases, "text"))
			continue
		}
		if s, ok := scalarString(it); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectItems(raw []any) []map[string]any {
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

/********** guide mapper **********/

// mapGuide keeps every object element of each list in order; absent or
// mistyped fields stay empty.
func mapGuide(m map[string]any) domain.TravelGuide {
	g := domain.TravelGuide{
		History: aliasString(m, guideAliases, "history"),
		Trivia:  textItems(firstSlice(m, guideAliases, "trivia")),
		Places:  []domain.Place{},
		Hotels:  []domain.Hotel{},
		Cuisine: []domain.Dish{},
		Tips:    textItems(firstSlice(m, guideAliases, "tips")),
	}

	for _, it := range objectItems(firstSlice(m, guideAliases, "places")) {
		p := domain.Place{
			Name:        aliasString(it, itemAliases, "name"),
			Description: aliasString(it, itemAliases, "description"),
		}
		g.Places = append(g.Places, p)
	}

	for _, it := range objectItems(firstSlice(m, guideAliases, "hotels")) {
		h := domain.Hotel{
			Name:       aliasString(it, itemAliases, "name"),
			PriceRange: aliasString(it, itemAliases, "price_range"),
		}
		g.Hotels = append(g.Hotels, h)
	}

	for _, it := range objectItems(firstSlice(m, guideAliases, "cuisine")) {
		d := domain.Dish{
			Dish:        aliasString(it, itemAliases, "dish"),
			Description: aliasString(it, itemAliases, "description"),
		}
		g.Cuisine = append(g.Cuisine, d)
	}

	return g
}
