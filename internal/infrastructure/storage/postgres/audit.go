package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"gudang/internal/core/id"
	"gudang/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used for a row.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// auditPayload is the stored form of an entry's old/new snapshots.
type auditPayload struct {
	Old map[string]any `json:"old,omitempty"`
	New map[string]any `json:"new,omitempty"`
}

// AuditRepo implements audit.Repository. Large snapshots (bulk opname
// documents can carry hundreds of lines) are zstd-compressed.
type AuditRepo struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// Ensure interface compliance.
var _ audit.Repository = (*AuditRepo)(nil)

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(txManager *TxManager) (*AuditRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditRepo{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Create appends an audit entry.
func (r *AuditRepo) Create(ctx context.Context, entry *audit.Entry) error {
	payload, err := json.Marshal(auditPayload{Old: entry.OldValues, New: entry.NewValues})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	algo := CompressionNone
	var compressed []byte
	if len(payload) > r.compressThreshold {
		compressed = r.encoder.EncodeAll(payload, nil)
		payload = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action,
			payload, payload_compressed, compression_algo,
			actor, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action,
		payload, compressed, algo,
		entry.Actor, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// ListByEntity returns the trail for an entity, newest first.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityType string, entityID id.ID, limit, offset int) ([]audit.Entry, error) {
	sql := `
		SELECT id, entity_type, entity_id, action,
			   payload, payload_compressed, compression_algo,
			   actor, notes, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e          audit.Entry
			payload    []byte
			compressed []byte
			algo       CompressionAlgo
		)

		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action,
			&payload, &compressed, &algo,
			&e.Actor, &e.Notes, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if algo == CompressionZstd && len(compressed) > 0 {
			payload, err = r.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit payload: %w", err)
			}
		}

		if len(payload) > 0 {
			var p auditPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return nil, fmt.Errorf("unmarshal audit payload: %w", err)
			}
			e.OldValues = p.Old
			e.NewValues = p.New
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
