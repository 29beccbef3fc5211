package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jkovac/inventar/internal/model"
)

// ProfileInput holds the writable fields of an admin profile. ImagePath is
// nil when the caller uploaded no new image, in which case the stored path
// is left untouched.
type ProfileInput struct {
	Title       string
	Fname       string
	Lname       string
	AddressLine string
	Town        string
	Phone       string
	ImagePath   *string
}

// GetAdminProfile returns the user row joined with its profile row.
// Returns (nil, nil) when the user is missing or soft-deleted. A user without
// a saved profile yields empty profile fields, which is a valid state.
func GetAdminProfile(ctx context.Context, db *sql.DB, userID int64) (*model.AdminProfile, error) {
	p := &model.AdminProfile{}
	var title, fname, lname, addressline, town, phone, image sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT u.id, u.name, u.email, u.role, u.status, u.created_at,
		        a.title, a.fname, a.lname, a.addressline, a.town, a.phone, a.profile_image
		 FROM users u
		 LEFT JOIN admin_profiles a ON a.user_id = u.id
		 WHERE u.id = ? AND u.deleted_at IS NULL`, userID,
	).Scan(&p.UserID, &p.Name, &p.Email, &p.Role, &p.Status, &p.CreatedAt,
		&title, &fname, &lname, &addressline, &town, &phone, &image)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin profile: %w", err)
	}

	p.Title = title.String
	p.Fname = fname.String
	p.Lname = lname.String
	p.AddressLine = addressline.String
	p.Town = town.String
	p.Phone = phone.String
	p.ImagePath = image.String
	return p, nil
}

// SaveAdminProfile upserts the profile row keyed by user ID. The conflict
// update keeps the existing profile_image when no new image path is given,
// so a text-only save never clears a previously uploaded photo.
func SaveAdminProfile(ctx context.Context, db *sql.DB, userID int64, in ProfileInput) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO admin_profiles (user_id, title, fname, lname, addressline, town, phone, profile_image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		     title = excluded.title,
		     fname = excluded.fname,
		     lname = excluded.lname,
		     addressline = excluded.addressline,
		     town = excluded.town,
		     phone = excluded.phone,
		     profile_image = COALESCE(excluded.profile_image, admin_profiles.profile_image),
		     updated_at = CURRENT_TIMESTAMP`,
		userID, in.Title, in.Fname, in.Lname, in.AddressLine, in.Town, in.Phone, in.ImagePath,
	)
	if err != nil {
		return fmt.Errorf("saving admin profile: %w", err)
	}
	return nil
}
