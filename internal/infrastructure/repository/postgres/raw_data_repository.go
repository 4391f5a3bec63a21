package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trackmetrics/pitchsync/internal/domain/rawdata"
	qb "github.com/trackmetrics/pitchsync/internal/platform/querybuilder"
)

type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := rawDataPayloadInsertModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			MatchID:     item.MatchID,
			Payload:     item.PayloadBody,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt,
		}

		query, args, err := qb.InsertModel("raw_data_payloads", insertModel, `ON CONFLICT (source, entity_type, entity_key)
DO UPDATE SET
    match_id = EXCLUDED.match_id,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    ingested_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert raw payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert raw payload entity=%s key=%s: %w", item.EntityType, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw payloads tx: %w", err)
	}

	return nil
}

type rawDataPayloadInsertModel struct {
	Source      string     `db:"source"`
	EntityType  string     `db:"entity_type"`
	EntityKey   string     `db:"entity_key"`
	MatchID     string     `db:"match_id"`
	Payload     string     `db:"payload"`
	PayloadHash string     `db:"payload_hash"`
	FetchedAt   *time.Time `db:"fetched_at"`
}
