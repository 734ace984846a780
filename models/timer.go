package models

import (
	"time"
)

type Timer struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	Owner     string    `db:"owner"      json:"owner"`
}
