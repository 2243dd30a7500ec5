package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"travela/internal/domain"
	"travela/internal/storage/mysql/migrations"
)

const errDupEntry = 1062

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type Repo struct{ db *sql.DB }

var _ domain.ProfileRepository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate applies the embedded schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectMySQL, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *Repo) CreateProfile(ctx context.Context, p domain.Profile) error {
	prefs, dietary, accom, err := profileJSON(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertProfileSQL,
		p.UID,
		p.Email,
		p.Name,
		p.PhotoURL,
		p.FullName,
		p.PhoneNumber,
		p.DateOfBirth,
		p.Nationality,
		p.PreferredLanguage,
		prefs,
		dietary,
		accom,
		p.BudgetRange,
		valStr(p.SpecialRequirements),
		p.ProfileCompleted,
		p.CreatedAt,
		p.UpdatedAt,
	)
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == errDupEntry {
		return fmt.Errorf("profile %s: %w", p.UID, domain.ErrDuplicate)
	}
	return err
}

func (r *Repo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	prefs, dietary, accom, err := profileJSON(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, updateProfileSQL,
		p.FullName,
		p.PhoneNumber,
		p.DateOfBirth,
		p.Nationality,
		p.PreferredLanguage,
		prefs,
		dietary,
		accom,
		p.BudgetRange,
		valStr(p.SpecialRequirements),
		p.ProfileCompleted,
		p.UpdatedAt,
		p.UID,
	)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows for an unchanged row, so confirm existence separately.
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE uid = ?`, p.UID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
	}
	return nil
}

func (r *Repo) GetProfile(ctx context.Context, uid string) (domain.Profile, error) {
	var p domain.Profile
	var prefs, dietary, accom []byte
	var special sql.NullString
	err := r.db.QueryRowContext(ctx, getProfileSQL, uid).Scan(
		&p.UID,
		&p.Email,
		&p.Name,
		&p.PhotoURL,
		&p.FullName,
		&p.PhoneNumber,
		&p.DateOfBirth,
		&p.Nationality,
		&p.PreferredLanguage,
		&prefs,
		&dietary,
		&accom,
		&p.BudgetRange,
		&special,
		&p.ProfileCompleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	if special.Valid {
		p.SpecialRequirements = special.String
	}
	_ = json.Unmarshal(prefs, &p.TravelPreferences)
	_ = json.Unmarshal(dietary, &p.DietaryRestrictions)
	_ = json.Unmarshal(accom, &p.PreferredAccommodation)
	return p, nil
}

func (r *Repo) InsertContactMessage(ctx context.Context, m domain.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, insertContactSQL, m.ID, m.UID, m.Name, m.Email, m.Subject, m.Message, m.CreatedAt)
	return err
}

func profileJSON(p domain.Profile) (prefs, dietary, accom string, err error) {
	if prefs, err = valJSON(nonNilMap(p.TravelPreferences)); err != nil {
		return
	}
	if dietary, err = valJSON(nonNilMap(p.DietaryRestrictions)); err != nil {
		return
	}
	if p.PreferredAccommodation == nil {
		p.PreferredAccommodation = []string{}
	}
	accom, err = valJSON(p.PreferredAccommodation)
	return
}

func nonNilMap(m map[string]bool) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	return m
}
