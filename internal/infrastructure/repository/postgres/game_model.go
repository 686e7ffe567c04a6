package postgres

import (
	"time"

	"github.com/lib/pq"
)

type gameTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	Name      string        `db:"name"`
	Drawn     pq.Int64Array `db:"drawn"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at"`
}

type gameInsertModel struct {
	PublicID  string        `db:"public_id"`
	Name      string        `db:"name"`
	Drawn     pq.Int64Array `db:"drawn"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type preferenceTableModel struct {
	ID        int64      `db:"id"`
	Key       string     `db:"key"`
	Enabled   bool       `db:"enabled"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type preferenceInsertModel struct {
	Key       string    `db:"key"`
	Enabled   bool      `db:"enabled"`
	UpdatedAt time.Time `db:"updated_at"`
}
