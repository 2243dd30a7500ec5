package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"travela/internal/domain"
)

const (
	NextCompleteProfile = "/complete-profile"
	NextApp             = "/app"
)

type ProfileService struct {
	repo domain.ProfileRepository
	now  func() time.Time
}

func NewProfileService(r domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: r, now: time.Now}
}

type SignInResult struct {
	Profile domain.Profile `json:"profile"`
	Next    string         `json:"next"`
}

// SignIn creates the profile on first sign-in and tells the caller whether
// the profile still has to be completed.
func (s *ProfileService) SignIn(ctx context.Context, id domain.Identity) (SignInResult, error) {
	p, err := s.repo.GetProfile(ctx, id.UID)
	if err == nil {
		return SignInResult{Profile: p, Next: nextFor(p)}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return SignInResult{}, err
	}

	now := s.now().UTC()
	p = domain.Profile{
		UID:                    id.UID,
		Email:                  id.Email,
		Name:                   id.Name,
		PhotoURL:               id.PhotoURL,
		FullName:               id.Name,
		PreferredLanguage:      "English",
		TravelPreferences:      map[string]bool{},
		DietaryRestrictions:    map[string]bool{"none": true},
		PreferredAccommodation: []string{},
		BudgetRange:            "medium",
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return SignInResult{}, fmt.Errorf("create profile %s: %w", id.UID, err)
		}
		// lost a first sign-in race; the winner's row stands
		existing, gerr := s.repo.GetProfile(ctx, id.UID)
		if gerr != nil {
			return SignInResult{}, fmt.Errorf("reload profile %s: %w", id.UID, gerr)
		}
		return SignInResult{Profile: existing, Next: nextFor(existing)}, nil
	}
	return SignInResult{Profile: p, Next: NextCompleteProfile}, nil
}

func (s *ProfileService) Get(ctx context.Context, uid string) (domain.Profile, error) {
	return s.repo.GetProfile(ctx, uid)
}

type ProfileForm struct {
	FullName               string          `json:"fullName"`
	PhoneNumber            string          `json:"phoneNumber"`
	DateOfBirth            string          `json:"dateOfBirth"`
	Nationality            string          `json:"nationality"`
	PreferredLanguage      string          `json:"preferredLanguage"`
	TravelPreferences      map[string]bool `json:"travelPreferences"`
	DietaryRestrictions    map[string]bool `json:"dietaryRestrictions"`
	PreferredAccommodation []string        `json:"preferredAccommodation"`
	BudgetRange            string          `json:"budgetRange"`
	SpecialRequirements    string          `json:"specialRequirements"`
}

// Complete validates the form, stores it and marks the profile completed.
func (s *ProfileService) Complete(ctx context.Context, uid string, f ProfileForm) (domain.Profile, error) {
	if err := s.validate(&f); err != nil {
		return domain.Profile{}, err
	}

	p, err := s.repo.GetProfile(ctx, uid)
	if err != nil {
		return domain.Profile{}, err
	}

	p.FullName = f.FullName
	p.PhoneNumber = f.PhoneNumber
	p.DateOfBirth = f.DateOfBirth
	p.Nationality = f.Nationality
	p.PreferredLanguage = f.PreferredLanguage
	p.TravelPreferences = f.TravelPreferences
	p.DietaryRestrictions = f.DietaryRestrictions
	p.PreferredAccommodation = f.PreferredAccommodation
	p.BudgetRange = f.BudgetRange
	p.SpecialRequirements = f.SpecialRequirements
	p.ProfileCompleted = true
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("update profile %s: %w", uid, err)
	}
	return p, nil
}

// validate normalises f in place and reports every failing field at once.
func (s *ProfileService) validate(f *ProfileForm) error {
	var v domain.ValidationError

	f.FullName = strings.TrimSpace(f.FullName)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Nationality = strings.TrimSpace(f.Nationality)
	f.SpecialRequirements = strings.TrimSpace(f.SpecialRequirements)

	if f.FullName == "" {
		v.Add("fullName", "required")
	}
	if f.PhoneNumber == "" {
		v.Add("phoneNumber", "required")
	}
	if f.DateOfBirth == "" {
		v.Add("dateOfBirth", "required")
	} else if dob, err := time.Parse(time.DateOnly, f.DateOfBirth); err != nil {
		v.Add("dateOfBirth", "must be YYYY-MM-DD")
	} else if !dob.Before(s.now()) {
		v.Add("dateOfBirth", "must be in the past")
	}
	if f.Nationality == "" {
		v.Add("nationality", "required")
	}

	f.TravelPreferences = knownFlags(f.TravelPreferences, domain.TravelPreferenceKeys)
	if len(f.TravelPreferences) == 0 {
		v.Add("travelPreferences", "select at least one")
	}

	f.DietaryRestrictions = knownFlags(f.DietaryRestrictions, domain.DietaryRestrictionKeys)
	if len(f.DietaryRestrictions) == 0 {
		f.DietaryRestrictions = map[string]bool{"none": true}
	}

	accom := make([]string, 0, len(f.PreferredAccommodation))
	for _, a := range f.PreferredAccommodation {
		if a = strings.TrimSpace(a); a != "" && !slices.Contains(accom, a) {
			accom = append(accom, a)
		}
	}
	f.PreferredAccommodation = accom
	if len(accom) == 0 {
		v.Add("preferredAccommodation", "select at least one")
	}

	f.BudgetRange = strings.ToLower(strings.TrimSpace(f.BudgetRange))
	if f.BudgetRange == "" {
		f.BudgetRange = "medium"
	}
	if !slices.Contains(domain.BudgetRanges, f.BudgetRange) {
		v.Add("budgetRange", "must be one of low, medium, high")
	}

	if f.PreferredLanguage = strings.TrimSpace(f.PreferredLanguage); f.PreferredLanguage == "" {
		f.PreferredLanguage = "English"
	}

	return v.OrNil()
}

// knownFlags keeps only the true flags whose key is in allowed.
func knownFlags(in map[string]bool, allowed []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, on := range in {
		if on && slices.Contains(allowed, k) {
			out[k] = true
		}
	}
	return out
}

func nextFor(p domain.Profile) string {
	if p.ProfileCompleted {
		return NextApp
	}
	return NextCompleteProfile
}

type ContactService struct {
	repo  domain.ProfileRepository
	now   func() time.Time
	newID func() string
}

func NewContactService(r domain.ProfileRepository) *ContactService {
	return &ContactService{repo: r, now: time.Now, newID: uuid.NewString}
}

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *ContactService) Submit(ctx context.Context, id domain.Identity, f ContactForm) (domain.ContactMessage, error) {
	var v domain.ValidationError
	m := domain.ContactMessage{
		ID:        s.newID(),
		UID:       id.UID,
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.TrimSpace(f.Email),
		Subject:   strings.TrimSpace(f.Subject),
		Message:   strings.TrimSpace(f.Message),
		CreatedAt: s.now().UTC(),
	}
	if m.Name == "" {
		v.Add("name", "required")
	}
	if m.Email == "" {
		v.Add("email", "required")
	} else if at := strings.IndexByte(m.Email, '@'); at <= 0 || at == len(m.Email)-1 {
		v.Add("email", "must be an email address")
	}
	if m.Subject == "" {
		v.Add("subject", "required")
	}
	if m.Message == "" {
		v.Add("message", "required")
	}
	if err := v.OrNil(); err != nil {
		return domain.ContactMessage{}, err
	}

	if err := s.repo.InsertContactMessage(ctx, m); err != nil {
		return domain.ContactMessage{}, fmt.Errorf("store contact message: %w", err)
	}
	return m, nil
}
