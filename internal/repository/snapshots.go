package repository

import (
	"context"
	"time"

	"github.com/yadoya-dev/shift-board/backend/internal/domain"
)

// SaveSnapshot はバックアップ文書をそのままの形でアーカイブに追記する。
// 文書の中身はここでは一切解釈しない
func (r *Repository) SaveSnapshot(document []byte, version string, takenAt time.Time) (int64, error) {
	query := `
		INSERT INTO snapshots (version, taken_at, document)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, version, takenAt, document).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

// GetLatestSnapshot は最新のバックアップ文書を返す。
// 見つからない場合は sql.ErrNoRows を返す
func (r *Repository) GetLatestSnapshot() ([]byte, error) {
	query := `
		SELECT document FROM snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var document []byte
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&document); err != nil {
		return nil, err
	}

	return document, nil
}

func (r *Repository) ListSnapshots(limit int) ([]*domain.SnapshotMeta, error) {
	query := `
		SELECT id, version, taken_at FROM snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metas := make([]*domain.SnapshotMeta, 0)
	for rows.Next() {
		meta := &domain.SnapshotMeta{}
		if err := rows.Scan(&meta.ID, &meta.Version, &meta.TakenAt); err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metas, nil
}

func (r *Repository) GetSnapshotByID(id int64) ([]byte, error) {
	query := `
		SELECT document FROM snapshots WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var document []byte
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&document); err != nil {
		return nil, err
	}

	return document, nil
}
