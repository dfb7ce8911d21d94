package models

import (
	"database/sql"
	"time"
)

type User struct {
	UserID    string
	Name      sql.NullString
	Email     sql.NullString
	Image     sql.NullString
	CreatedAt time.Time
}
