package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vectorcraft-admin/core/tuning"
)

type TuningStore interface {
	GetTuning(ctx context.Context) (*TuningSettings, error)
	SaveTuning(ctx context.Context, settings *TuningSettings) error
}

type TuningSettings struct {
	ID        int64         `json:"id"`
	Params    tuning.Params `json:"params"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type tuningStore struct {
	db *sql.DB
}

func NewTuningStore(db *sql.DB) TuningStore {
	return &tuningStore{db: db}
}

func (s *tuningStore) GetTuning(ctx context.Context) (*TuningSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, auto_optimization, cache_level, db_pool_size, request_timeout, updated_at
		FROM tuning_settings ORDER BY id LIMIT 1`)
	var out TuningSettings
	var auto int
	var level string
	if err := row.Scan(&out.ID, &auto, &level, &out.Params.DBPoolSize, &out.Params.RequestTimeoutSec, &out.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	out.Params.AutoOptimization = auto == 1
	out.Params.CacheLevel, _ = tuning.ParseCacheLevel(level)
	out.Params = tuning.Normalize(out.Params)
	return &out, nil
}

func (s *tuningStore) SaveTuning(ctx context.Context, settings *TuningSettings) error {
	if settings == nil {
		return errors.New("missing tuning settings")
	}
	settings.Params = tuning.Normalize(settings.Params)
	now := time.Now().UTC()
	auto := 0
	if settings.Params.AutoOptimization {
		auto = 1
	}
	if settings.ID > 0 {
		_, err := s.db.ExecContext(ctx, `
			UPDATE tuning_settings
			SET auto_optimization=?, cache_level=?, db_pool_size=?, request_timeout=?, updated_at=?
			WHERE id=?`,
			auto,
			string(settings.Params.CacheLevel),
			settings.Params.DBPoolSize,
			settings.Params.RequestTimeoutSec,
			now,
			settings.ID,
		)
		if err != nil {
			return err
		}
		settings.UpdatedAt = now
		return nil
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tuning_settings(auto_optimization, cache_level, db_pool_size, request_timeout, updated_at)
		VALUES(?,?,?,?,?)`,
		auto,
		string(settings.Params.CacheLevel),
		settings.Params.DBPoolSize,
		settings.Params.RequestTimeoutSec,
		now,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	settings.ID = id
	settings.UpdatedAt = now
	return nil
}
