package app_test

import (
	"context"
	"errors"
	"testing"

	"travela/internal/app"
	"travela/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	profiles map[string]domain.Profile
	messages []domain.ContactMessage
	creates  int
	// hideReads makes the next GetProfile calls miss, as a concurrent
	// first sign-in would see before the other insert commits.
	hideReads int
}

func (f *fakeRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	if f.profiles == nil {
		f.profiles = map[string]domain.Profile{}
	}
	if _, ok := f.profiles[p.UID]; ok {
		return domain.ErrDuplicate
	}
	f.creates++
	f.profiles[p.UID] = p
	return nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	if _, ok := f.profiles[p.UID]; !ok {
		return domain.ErrNotFound
	}
	f.profiles[p.UID] = p
	return nil
}

func (f *fakeRepo) InsertContactMessage(ctx context.Context, m domain.ContactMessage) error {
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeRepo) GetProfile(ctx context.Context, uid string) (domain.Profile, error) {
	if f.hideReads > 0 {
		f.hideReads--
		return domain.Profile{}, domain.ErrNotFound
	}
	p, ok := f.profiles[uid]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func validForm() app.ProfileForm {
	return app.ProfileForm{
		FullName:               "Ana Traveller",
		PhoneNumber:            "+351 900 000 000",
		DateOfBirth:            "1990-04-01",
		Nationality:            "PT",
		TravelPreferences:      map[string]bool{"culture": true, "food": true, "bogus": true},
		PreferredAccommodation: []string{"hotel", "hotel", " hostel "},
	}
}

// ---- tests ----

func TestSignIn_FirstTimeCreatesProfile(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewProfileService(repo)
	id := domain.Identity{UID: "u1", Email: "ana@example.com", Name: "Ana"}

	res, err := svc.SignIn(context.Background(), id)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Next != app.NextCompleteProfile || res.Profile.ProfileCompleted {
		t.Fatalf("unexpected sign-in result: %+v", res)
	}
	if res.Profile.PreferredLanguage != "English" || res.Profile.BudgetRange != "medium" {
		t.Fatalf("defaults not applied: %+v", res.Profile)
	}

	// second sign-in must not recreate
	if _, err := svc.SignIn(context.Background(), id); err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected 1 create, got %d", repo.creates)
	}
}

func TestSignIn_LosingCreateRaceReturnsExisting(t *testing.T) {
	winner := domain.Profile{UID: "u1", Email: "ana@example.com", FullName: "Ana Winner", ProfileCompleted: true}
	repo := &fakeRepo{profiles: map[string]domain.Profile{"u1": winner}, hideReads: 1}
	svc := app.NewProfileService(repo)

	res, err := svc.SignIn(context.Background(), domain.Identity{UID: "u1", Email: "ana@example.com", Name: "Ana"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Profile.FullName != "Ana Winner" || !res.Profile.ProfileCompleted {
		t.Fatalf("expected the stored profile, got %+v", res.Profile)
	}
	if res.Next != app.NextApp {
		t.Fatalf("next: %q", res.Next)
	}
	if repo.creates != 0 {
		t.Fatalf("stored profile was overwritten")
	}
}

func TestSignIn_CreateErrorPropagates(t *testing.T) {
	svc := app.NewProfileService(failingCreateRepo{&fakeRepo{}})
	_, err := svc.SignIn(context.Background(), domain.Identity{UID: "u1"})
	if err == nil || errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected create failure, got %v", err)
	}
}

type failingCreateRepo struct{ *fakeRepo }

func (failingCreateRepo) CreateProfile(context.Context, domain.Profile) error {
	return errors.New("connection reset")
}

func (failingCreateRepo) GetProfile(context.Context, string) (domain.Profile, error) {
	return domain.Profile{}, domain.ErrNotFound
}

func TestComplete_ValidFormMarksCompleted(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewProfileService(repo)
	ctx := context.Background()
	if _, err := svc.SignIn(ctx, domain.Identity{UID: "u1", Email: "a@b.c"}); err != nil {
		t.Fatalf("err: %v", err)
	}

	p, err := svc.Complete(ctx, "u1", validForm())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !p.ProfileCompleted {
		t.Fatalf("profile not marked completed")
	}
	if p.TravelPreferences["bogus"] || !p.TravelPreferences["culture"] {
		t.Fatalf("travel preferences not normalised: %+v", p.TravelPreferences)
	}
	if len(p.PreferredAccommodation) != 2 || p.PreferredAccommodation[1] != "hostel" {
		t.Fatalf("accommodation not normalised: %+v", p.PreferredAccommodation)
	}
	if !p.DietaryRestrictions["none"] {
		t.Fatalf("expected dietary default none: %+v", p.DietaryRestrictions)
	}

	res, _ := svc.SignIn(ctx, domain.Identity{UID: "u1"})
	if res.Next != app.NextApp {
		t.Fatalf("completed profile should go to app, got %s", res.Next)
	}
}

func TestComplete_ValidationReportsAllFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewProfileService(repo)

	_, err := svc.Complete(context.Background(), "u1", app.ProfileForm{DateOfBirth: "01/04/1990", BudgetRange: "lavish"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"fullName", "phoneNumber", "dateOfBirth", "nationality", "travelPreferences", "preferredAccommodation", "budgetRange"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("missing validation for %s: %v", f, ve.Fields)
		}
	}
}

func TestComplete_UnknownUser(t *testing.T) {
	svc := app.NewProfileService(&fakeRepo{})
	if _, err := svc.Complete(context.Background(), "ghost", validForm()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContactSubmit(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewContactService(repo)
	id := domain.Identity{UID: "u1"}

	m, err := svc.Submit(context.Background(), id, app.ContactForm{Name: "Ana", Email: "ana@example.com", Subject: "Hi", Message: "Hello"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if m.ID == "" || m.UID != "u1" || len(repo.messages) != 1 {
		t.Fatalf("unexpected message: %+v", m)
	}

	_, err = svc.Submit(context.Background(), id, app.ContactForm{Name: "Ana", Email: "nope"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["email"] == "" || ve.Fields["message"] == "" {
		t.Fatalf("expected email/message validation errors, got %v", err)
	}
	if len(repo.messages) != 1 {
		t.Fatalf("invalid message was stored")
	}
}
