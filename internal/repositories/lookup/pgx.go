package lookup

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/repositories"
	"github.com/orgball2608/insta-viewer/pkg/logger"
)

const table = "lookups"

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("LookupRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Create(ctx context.Context, l domain.Lookup) error {
	query, args, err := insertQuery(l)
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

func (p *Pgx) ListRecent(ctx context.Context, limit int) ([]domain.Lookup, error) {
	query, args, err := listRecentQuery(limit)
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lookups := make([]domain.Lookup, 0, limit)
	for rows.Next() {
		var l domain.Lookup
		if err := rows.Scan(&l.ID, &l.Username, &l.UserID, &l.Success, &l.CreatedAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lookups, nil
}

func (p *Pgx) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := deleteOlderThanQuery(cutoff)
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

func insertQuery(l domain.Lookup) (string, []interface{}, error) {
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return repositories.SqBuilder.
		Insert(table).
		Columns("username", "user_id", "success", "created_at").
		Values(l.Username, l.UserID, l.Success, createdAt).
		ToSql()
}

func listRecentQuery(limit int) (string, []interface{}, error) {
	return repositories.SqBuilder.
		Select("id", "username", "user_id", "success", "created_at").
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
}

func deleteOlderThanQuery(cutoff time.Time) (string, []interface{}, error) {
	return repositories.SqBuilder.
		Delete(table).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
}
