package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/infra"
	"popularity-engine/internal/infra/db"
	"popularity-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// kindTable describes where one content kind lives. Each kind keeps its own table and
// owner column; the schemas are not unified.
type kindTable struct {
	table    string
	owner    string
	hasViews bool
}

var kindTables = map[content.Kind]kindTable{
	content.KindImage: {table: "images", hasViews: false},
	content.KindVideo: {table: "videos", hasViews: true},
	content.KindMusic: {table: "music", hasViews: false},
}

func tableFor(kind content.Kind) (kindTable, error) {
	t, ok := kindTables[kind]
	if !ok {
		return kindTable{}, content.ErrInvalidKind
	}
	t.owner = pgx.Identifier{content.OwnerResolverFor(kind).Field()}.Sanitize()
	return t, nil
}

func (t kindTable) viewsExpr() string {
	if t.hasViews {
		return "views"
	}
	return "0"
}

func (t kindTable) selectColumns() string {
	return strings.Join([]string{
		"id", t.owner, "created_at", "clicks", "likes", "likes_count", t.viewsExpr(),
		"metadata", "completeness_score", "initial_boost", "boost_activated_at",
		"boost_expires_at", "boost_kind", "stored_score",
	}, ", ")
}

type ItemRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewItemRepository(dbtx db.DBTX, logger *slog.Logger) *ItemRepository {
	return &ItemRepository{db: dbtx, logger: logger}
}

func (r *ItemRepository) Find(ctx context.Context, kind content.Kind, id uuid.UUID) (*content.Item, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.selectColumns(), t.table)
	item, err := scanItem(kind, r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "item not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find item", err)
	}
	return item, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *content.Item) error {
	t, err := tableFor(item.Kind())
	if err != nil {
		return err
	}

	cols := []string{
		"id", t.owner, "created_at", "clicks", "likes", "likes_count", "metadata",
		"completeness_score", "initial_boost", "boost_activated_at", "boost_expires_at",
		"boost_kind", "stored_score",
	}
	raw := item.Raw()
	b := item.Boost()
	var boostKind *string
	if k := b.Kind(); k != nil {
		s := k.String()
		boostKind = &s
	}
	args := []any{
		item.ID(), item.OwnerID(), item.CreatedAt(), raw.Clicks, raw.Likes, raw.LikesCount,
		map[string]string(item.Metadata()), raw.CompletenessScore, b.Initial(),
		pgconv.TimePtrToPgtype(b.ActivatedAt()), pgconv.TimePtrToPgtype(b.ExpiresAt()),
		pgconv.StringPtrToPgtype(boostKind), item.StoredScore(),
	}
	if t.hasViews {
		cols = append(cols, "views")
		args = append(args, raw.Views)
	}

	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c != "id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		t.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "),
	)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to save item", err)
	}
	return nil
}

func (r *ItemRepository) SaveScore(ctx context.Context, item *content.Item) (bool, error) {
	t, err := tableFor(item.Kind())
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(
		`UPDATE %s SET completeness_score = $2, stored_score = $3
		 WHERE id = $1 AND boost_activated_at IS NOT DISTINCT FROM $4`, t.table)

	tag, err := r.db.Exec(ctx, query,
		item.ID(), item.Raw().CompletenessScore, item.StoredScore(),
		pgconv.TimePtrToPgtype(item.Boost().ActivatedAt()))
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save item score", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ItemRepository) FindMaxStoredScore(ctx context.Context, kind content.Kind) (float64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var maxScore float64
	query := fmt.Sprintf("SELECT COALESCE(MAX(stored_score), 0) FROM %s", t.table)
	if err := r.db.QueryRow(ctx, query).Scan(&maxScore); err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find max stored score", err)
	}
	return maxScore, nil
}

func (r *ItemRepository) ListByKind(ctx context.Context, kind content.Kind) ([]*content.Item, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s", t.selectColumns(), t.table)
	return r.list(ctx, kind, query)
}

func (r *ItemRepository) ListPageByStoredScore(ctx context.Context, kind content.Kind, offset, limit int) ([]*content.Item, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY stored_score DESC, created_at DESC, id DESC OFFSET $1 LIMIT $2",
		t.selectColumns(), t.table)
	return r.list(ctx, kind, query, offset, limit)
}

func (r *ItemRepository) CountByKind(ctx context.Context, kind content.Kind) (int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+t.table).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count items", err)
	}
	return n, nil
}

func (r *ItemRepository) list(ctx context.Context, kind content.Kind, query string, args ...any) ([]*content.Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list items", err)
	}
	defer rows.Close()

	items := []*content.Item{}
	for rows.Next() {
		item, err := scanItem(kind, rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate items", err)
	}
	return items, nil
}

func scanItem(kind content.Kind, row pgx.Row) (*content.Item, error) {
	var (
		id          uuid.UUID
		owner       uuid.UUID
		createdAt   pgtype.Timestamptz
		raw         content.RawEngagement
		metadata    map[string]string
		initial     float64
		activatedAt pgtype.Timestamptz
		expiresAt   pgtype.Timestamptz
		boostKind   pgtype.Text
		storedScore float64
	)
	err := row.Scan(
		&id, &owner, &createdAt, &raw.Clicks, &raw.Likes, &raw.LikesCount, &raw.Views,
		&metadata, &raw.CompletenessScore, &initial, &activatedAt, &expiresAt, &boostKind,
		&storedScore,
	)
	if err != nil {
		return nil, err
	}

	var bk *boost.Kind
	if s := pgconv.StringPtrFromPgtype(boostKind); s != nil {
		k, err := boost.ParseKind(*s)
		if err != nil {
			return nil, err
		}
		bk = &k
	}

	return content.ReconstructItem(
		id,
		kind,
		owner,
		createdAt.Time.UTC(),
		raw,
		content.Metadata(metadata),
		boost.Reconstruct(initial, pgconv.TimePtrFromPgtype(activatedAt), pgconv.TimePtrFromPgtype(expiresAt), bk),
		storedScore,
	), nil
}
