package domain

import "time"

// Identity is what the identity provider vouches for on an authenticated request.
type Identity struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Profile struct {
	UID                    string          `json:"uid"`
	Email                  string          `json:"email"`
	Name                   string          `json:"name"`
	PhotoURL               string          `json:"photoURL,omitempty"`
	FullName               string          `json:"fullName,omitempty"`
	PhoneNumber            string          `json:"phoneNumber,omitempty"`
	DateOfBirth            string          `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Nationality            string          `json:"nationality,omitempty"`
	PreferredLanguage      string          `json:"preferredLanguage"`
	TravelPreferences      map[string]bool `json:"travelPreferences"`
	DietaryRestrictions    map[string]bool `json:"dietaryRestrictions"`
	PreferredAccommodation []string        `json:"preferredAccommodation"`
	BudgetRange            string          `json:"budgetRange"`
	SpecialRequirements    string          `json:"specialRequirements,omitempty"`
	ProfileCompleted       bool            `json:"profileCompleted"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

var (
	TravelPreferenceKeys   = []string{"adventure", "culture", "relaxation", "food", "shopping", "nature"}
	DietaryRestrictionKeys = []string{"vegetarian", "vegan", "halal", "kosher", "none"}
	BudgetRanges           = []string{"low", "medium", "high"}
)

type ContactMessage struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
