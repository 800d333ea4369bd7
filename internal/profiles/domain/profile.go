// Package domain holds the hair profile aggregate.
package domain

import (
	"errors"
	"strings"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound  = errors.New("user profile not found")
	ErrInvalidBirthDate = errors.New("date of birth must be YYYY-MM-DD")
	ErrMissingUserID    = errors.New("profile needs a user id")
)

// Details are the user-editable profile fields.
type Details struct {
	DateOfBirth     string
	HairType        string
	HairGoals       []string
	WashFrequency   string
	RoutineProducts []string
	Products        []string
}

func (d Details) normalized() (Details, error) {
	d.DateOfBirth = strings.TrimSpace(d.DateOfBirth)
	if d.DateOfBirth != "" {
		if _, err := sharedDomain.ParseDate(d.DateOfBirth); err != nil {
			return Details{}, ErrInvalidBirthDate
		}
	}
	d.HairType = strings.TrimSpace(d.HairType)
	d.WashFrequency = strings.TrimSpace(d.WashFrequency)
	d.HairGoals = cleanList(d.HairGoals)
	d.RoutineProducts = cleanList(d.RoutineProducts)
	d.Products = cleanList(d.Products)
	return d, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Profile is a user's hair profile. Its ID is the user ID.
type Profile struct {
	sharedDomain.BaseAggregateRoot
	details Details
}

// NewProfile creates a profile and records ProfileSaved.
func NewProfile(userID uuid.UUID, details Details) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	p := &Profile{BaseAggregateRoot: sharedDomain.NewBaseAggregateRootWithID(userID)}
	if err := p.Update(details); err != nil {
		return nil, err
	}
	return p, nil
}

// RehydrateProfile rebuilds a stored profile without recording events.
func RehydrateProfile(base sharedDomain.BaseAggregateRoot, details Details) *Profile {
	return &Profile{BaseAggregateRoot: base, details: details}
}

// Update replaces the details and records ProfileSaved.
func (p *Profile) Update(details Details) error {
	clean, err := details.normalized()
	if err != nil {
		return err
	}
	p.details = clean
	p.Touch()
	p.Record(NewProfileSaved(p))
	return nil
}

func (p *Profile) UserID() uuid.UUID         { return p.ID() }
func (p *Profile) DateOfBirth() string       { return p.details.DateOfBirth }
func (p *Profile) HairType() string          { return p.details.HairType }
func (p *Profile) HairGoals() []string       { return append([]string(nil), p.details.HairGoals...) }
func (p *Profile) WashFrequency() string     { return p.details.WashFrequency }
func (p *Profile) RoutineProducts() []string { return append([]string(nil), p.details.RoutineProducts...) }
func (p *Profile) Products() []string        { return append([]string(nil), p.details.Products...) }
