package models

import (
	"time"
)

type Guild struct {
	ID         string    `db:"id"          json:"id"`
	ExternalID string    `db:"external_id" json:"external_id"`
	Name       *string   `db:"name"        json:"name,omitempty"`
	Prefix     string    `db:"prefix"      json:"prefix"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}
