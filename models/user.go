package models

import (
	"fmt"
	"time"
	// bundled so that stored timezones resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"remindbot/core"
)

const (
	timeFormat24      = "15:04:05"
	timeFormat12      = "03:04:05 PM"
	dateTimeFormat24  = "2006-01-02 15:04:05"
	dateTimeFormat12  = "2006-01-02 03:04:05 PM"
	shortTimeFormat24 = "15:04"
	shortTimeFormat12 = "03:04 PM"
)

// User carries effective preferences: Language and Timezone are never empty once loaded
// through the repository, which substitutes the configured defaults for NULL columns.
type User struct {
	ID           string    `db:"id"            json:"id"`
	ExternalID   string    `db:"external_id"   json:"external_id"`
	Name         string    `db:"name"          json:"name"`
	DMChannel    string    `db:"dm_channel"    json:"dm_channel"`
	Language     string    `db:"language"      json:"language"`
	Timezone     string    `db:"timezone"      json:"timezone"`
	MeridianTime bool      `db:"meridian_time" json:"meridian_time"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// Location parses the stored timezone. A value that no longer parses is reported as
// core.ErrMalformedPreference rather than silently replaced.
func (u *User) Location() (*time.Location, error) {
	if u.Timezone == "" || u.Timezone == "Local" {
		return nil, fmt.Errorf("timezone %q for user %s: %w", u.Timezone, u.ExternalID, core.ErrMalformedPreference)
	}

	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q for user %s: %w", u.Timezone, u.ExternalID, core.ErrMalformedPreference)
	}
	return loc, nil
}

// Meridian returns the display format preference of the user
func (u *User) Meridian() Meridian {
	return Meridian(u.MeridianTime)
}

// Meridian selects between 12-hour (true) and 24-hour (false) time display
type Meridian bool

func (m Meridian) TimeFormat() string {
	if m {
		return timeFormat12
	}
	return timeFormat24
}

func (m Meridian) DateTimeFormat() string {
	if m {
		return dateTimeFormat12
	}
	return dateTimeFormat24
}

func (m Meridian) ShortTimeFormat() string {
	if m {
		return shortTimeFormat12
	}
	return shortTimeFormat24
}

// Author identifies the sender of an inbound message
type Author struct {
	ID    string
	Name  string
	IsBot bool
}
