package repository

import (
	"database/sql"

	"github.com/yadoya-dev/shift-board/backend/internal/config"
)

// Repository はスナップショットのアーカイブ先となる Postgres へのアクセスを持つ
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
