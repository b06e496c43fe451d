// Package partner_repo provides PostgreSQL implementations for business
// partner repositories. All repositories route queries through the TxManager
// so they automatically join the transaction of the surrounding pipeline
// operation.
package partner_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bpdm/internal/core/apperror"
	"bpdm/internal/domain/partners"
	"bpdm/internal/infrastructure/storage/postgres"
)

// BasePartnerRepo provides common persistence operations for partner records
// keyed by BPN. Embed this in the kind-specific repositories.
type BasePartnerRepo[T any] struct {
	txManager  *postgres.TxManager
	batch      *postgres.BatchExecutor
	tableName  string
	selectCols []string
	searchCols []string // columns matched by ListFilter.Search
	parentCols []string // columns matched by ListFilter.ParentBPN
	newFn      func() T
}

// NewBasePartnerRepo creates a new base partner repository.
func NewBasePartnerRepo[T any](
	txManager *postgres.TxManager,
	tableName string,
	selectCols []string,
	searchCols []string,
	parentCols []string,
	newFn func() T,
) *BasePartnerRepo[T] {
	return &BasePartnerRepo[T]{
		txManager:  txManager,
		batch:      postgres.NewBatchExecutor(txManager),
		tableName:  tableName,
		selectCols: selectCols,
		searchCols: searchCols,
		parentCols: parentCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BasePartnerRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BasePartnerRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// baseSelect creates a SELECT builder over the repository's table.
func (r *BasePartnerRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByBPN retrieves a record by its business partner number.
func (r *BasePartnerRepo[T]) GetByBPN(ctx context.Context, bpn string) (T, error) {
	entity := r.newFn()

	q := r.baseSelect().
		Where(squirrel.Eq{"bpn": bpn}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, bpn)
		}
		return entity, fmt.Errorf("get by bpn: %w", err)
	}

	return entity, nil
}

// FindByBPNs retrieves the distinct records matching the given BPNs.
// Missing BPNs are absent from the result, never an error.
func (r *BasePartnerRepo[T]) FindByBPNs(ctx context.Context, bpns []string) ([]T, error) {
	if len(bpns) == 0 {
		return nil, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"bpn": distinct(bpns)})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("find by bpns: %w", err)
	}

	return items, nil
}

// CreateAll inserts all records. Inside a transaction the inserts are sent as
// one pgx batch (single round-trip); outside they fall back to sequential
// execution.
func (r *BasePartnerRepo[T]) CreateAll(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(entities))
	for _, e := range entities {
		data := postgres.StructToMap(e)
		if len(data) == 0 {
			return fmt.Errorf("no db tags found in entity")
		}

		q := r.Builder().
			Insert(r.tableName).
			SetMap(r.filterColumns(data, nil))

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	if r.txManager.GetTx(ctx) != nil {
		if err := r.batch.ExecuteBatch(ctx, queries); err != nil {
			return fmt.Errorf("insert %s: %w", r.tableName, err)
		}
		return nil
	}

	for _, q := range queries {
		if _, err := r.querier(ctx).Exec(ctx, q.SQL, q.Args...); err != nil {
			return fmt.Errorf("insert %s: %w", r.tableName, err)
		}
	}
	return nil
}

// UpdateAll updates all records with optimistic locking per record. A record
// whose stored version no longer matches fails the whole call with
// ConcurrentModification, rolling back the surrounding transaction.
func (r *BasePartnerRepo[T]) UpdateAll(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(entities))
	keys := make([]string, 0, len(entities))
	for _, e := range entities {
		data := postgres.StructToMap(e)
		if len(data) == 0 {
			return fmt.Errorf("no db tags found in entity")
		}

		entityID, ok := data["id"]
		if !ok {
			return fmt.Errorf("entity has no 'id' field with db tag")
		}
		version, ok := data["version"].(int)
		if !ok {
			return fmt.Errorf("entity has no 'version' field or it is not an int")
		}
		key, _ := data["bpn"].(string)
		keys = append(keys, key)

		q := r.Builder().
			Update(r.tableName).
			SetMap(r.filterColumns(data, map[string]bool{"id": true, "version": true, "bpn": true, "created_at": true})).
			Set("version", squirrel.Expr("version + 1")).
			Where(squirrel.Eq{"id": entityID}).
			Where(squirrel.Eq{"version": version}) // optimistic lock: expect current version

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	if r.txManager.GetTx(ctx) != nil {
		affected, err := r.batch.ExecuteBatchAffected(ctx, queries)
		if err != nil {
			return fmt.Errorf("update %s: %w", r.tableName, err)
		}
		for i, n := range affected {
			if n == 0 {
				return apperror.NewConcurrentModification(r.tableName, keys[i])
			}
		}
		return nil
	}

	for i, q := range queries {
		result, err := r.querier(ctx).Exec(ctx, q.SQL, q.Args...)
		if err != nil {
			return fmt.Errorf("update %s: %w", r.tableName, err)
		}
		if result.RowsAffected() == 0 {
			return apperror.NewConcurrentModification(r.tableName, keys[i])
		}
	}
	return nil
}

// List retrieves records with filtering and pagination.
func (r *BasePartnerRepo[T]) List(ctx context.Context, filter partners.ListFilter) (partners.ListResult[T], error) {
	result := partners.ListResult[T]{
		Items:  []T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.Search != "" && len(r.searchCols) > 0 {
		pattern := "%" + filter.Search + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	if len(filter.BPNs) > 0 {
		q = q.Where(squirrel.Eq{"bpn": filter.BPNs})
	}

	if filter.ParentBPN != "" && len(r.parentCols) > 0 {
		or := make(squirrel.Or, 0, len(r.parentCols))
		for _, col := range r.parentCols {
			or = append(or, squirrel.Eq{col: filter.ParentBPN})
		}
		q = q.Where(or)
	}

	// Count total (before pagination)
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

// ExistsByBPN checks if a record with the given BPN exists.
func (r *BasePartnerRepo[T]) ExistsByBPN(ctx context.Context, bpn string) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"bpn": bpn}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by bpn: %w", err)
	}

	return true, nil
}

// SelectMany executes a SELECT builder and scans all rows.
func (r *BasePartnerRepo[T]) SelectMany(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return items, nil
}

// Helper methods

// filterColumns keeps only known columns, minus the excluded set.
func (r *BasePartnerRepo[T]) filterColumns(data map[string]any, exclude map[string]bool) map[string]any {
	out := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if exclude[col] {
			continue
		}
		if val, ok := data[col]; ok {
			out[col] = val
		}
	}
	return out
}

func (r *BasePartnerRepo[T]) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.selectCols))
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}

	if orderBy == "" {
		return "bpn ASC", nil
	}

	// Support "-field" for DESC.
	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
