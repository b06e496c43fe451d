package partner_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"bpdm/internal/core/bpn"
	"bpdm/internal/core/id"
	"bpdm/internal/domain/partners/changelog"
	"bpdm/internal/infrastructure/storage/postgres"
)

const changelogTable = "bp_changelog_entries"

// compressionAlgo specifies how the diff payload of a row is stored.
type compressionAlgo string

const (
	compressionNone compressionAlgo = "none"
	compressionZstd compressionAlgo = "zstd"
)

// ChangelogRepo implements changelog.Repository. Diff payloads above the
// threshold are stored zstd-compressed; rows carry either changes or
// changes_compressed, never both.
type ChangelogRepo struct {
	txManager         *postgres.TxManager
	batch             *postgres.BatchExecutor
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// Ensure compile-time interface compliance.
var _ changelog.Repository = (*ChangelogRepo)(nil)

// NewChangelogRepo creates a new changelog repository.
func NewChangelogRepo(txManager *postgres.TxManager) (*ChangelogRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ChangelogRepo{
		txManager:         txManager,
		batch:             postgres.NewBatchExecutor(txManager),
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

const insertEntrySQL = `
	INSERT INTO bp_changelog_entries (
		id, bpn, change_type, partner_type,
		changes, changes_compressed, compression_algo, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Append writes all entries in one batched call.
func (r *ChangelogRepo) Append(ctx context.Context, entries []changelog.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(entries))
	for _, e := range entries {
		changes, compressed, algo, err := r.encodeChanges(e.Changes)
		if err != nil {
			return err
		}
		queries = append(queries, postgres.BatchQuery{
			SQL: insertEntrySQL,
			Args: []any{
				e.ID, e.BPN, e.ChangeType, e.PartnerType,
				changes, compressed, algo, e.CreatedAt,
			},
		})
	}

	if r.txManager.GetTx(ctx) != nil {
		if err := r.batch.ExecuteBatch(ctx, queries); err != nil {
			return fmt.Errorf("append %s: %w", changelogTable, err)
		}
		return nil
	}

	querier := r.txManager.GetQuerier(ctx)
	for _, q := range queries {
		if _, err := querier.Exec(ctx, q.SQL, q.Args...); err != nil {
			return fmt.Errorf("append %s: %w", changelogTable, err)
		}
	}
	return nil
}

// ListByBPNs retrieves entries for the given BPNs, newest first.
func (r *ChangelogRepo) ListByBPNs(ctx context.Context, bpns []string, limit int) ([]changelog.Entry, error) {
	if len(bpns) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	sql := `
		SELECT id, bpn, change_type, partner_type,
		       changes, changes_compressed, compression_algo, created_at
		FROM bp_changelog_entries
		WHERE bpn = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, bpns, limit)
	if err != nil {
		return nil, fmt.Errorf("query changelog: %w", err)
	}
	defer rows.Close()

	var entries []changelog.Entry
	for rows.Next() {
		var (
			e          changelog.Entry
			entryID    id.ID
			changeType string
			kind       string
			changes    []byte
			compressed []byte
			algo       compressionAlgo
		)
		if err := rows.Scan(&entryID, &e.BPN, &changeType, &kind, &changes, &compressed, &algo, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.ID = entryID
		e.ChangeType = changelog.ChangeType(changeType)
		e.PartnerType = bpn.Kind(kind)

		payload, err := r.decodeChanges(changes, compressed, algo)
		if err != nil {
			return nil, err
		}
		e.Changes = payload

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// encodeChanges serializes the diff payload, compressing it above the threshold.
func (r *ChangelogRepo) encodeChanges(changes map[string]any) (json.RawMessage, []byte, compressionAlgo, error) {
	if len(changes) == 0 {
		return nil, nil, compressionNone, nil
	}

	raw, err := json.Marshal(changes)
	if err != nil {
		return nil, nil, compressionNone, fmt.Errorf("marshal changes: %w", err)
	}

	if len(raw) > r.compressThreshold {
		return nil, r.encoder.EncodeAll(raw, nil), compressionZstd, nil
	}
	return raw, nil, compressionNone, nil
}

// decodeChanges reverses encodeChanges.
func (r *ChangelogRepo) decodeChanges(changes, compressed []byte, algo compressionAlgo) (map[string]any, error) {
	raw := changes
	if algo == compressionZstd && len(compressed) > 0 {
		decompressed, err := r.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress changes: %w", err)
		}
		raw = decompressed
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal changes: %w", err)
	}
	return payload, nil
}
