package repository

import (
	"context"
	"log/slog"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/infra"
	"popularity-engine/internal/infra/db"
	"popularity-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const couponColumns = `id, owner_id, kind, source, issued_at, expires_at, redeemed, redeemed_at,
	redeemed_on_item_id, redeemed_on_item_kind`

type CouponRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewCouponRepository(dbtx db.DBTX, logger *slog.Logger) *CouponRepository {
	return &CouponRepository{db: dbtx, logger: logger}
}

func (r *CouponRepository) Find(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx, "SELECT "+couponColumns+" FROM coupons WHERE id = $1", id)
	c, err := scanCoupon(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "coupon not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find coupon", err)
	}
	return c, nil
}

func (r *CouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	var itemKind *string
	if k := c.RedeemedOnItemKind(); k != nil {
		s := k.String()
		itemKind = &s
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO coupons (`+couponColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			redeemed = EXCLUDED.redeemed,
			redeemed_at = EXCLUDED.redeemed_at,
			redeemed_on_item_id = EXCLUDED.redeemed_on_item_id,
			redeemed_on_item_kind = EXCLUDED.redeemed_on_item_kind`,
		c.ID(), c.OwnerID(), c.Kind().String(), string(c.Source()), c.IssuedAt(),
		pgconv.TimePtrToPgtype(c.ExpiresAt()), c.Redeemed(), pgconv.TimePtrToPgtype(c.RedeemedAt()),
		pgconv.UUIDPtrToPgtype(c.RedeemedOnItemID()), pgconv.StringPtrToPgtype(itemKind),
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to save coupon", err)
	}
	return nil
}

func (r *CouponRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*coupon.Coupon, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+couponColumns+" FROM coupons WHERE owner_id = $1 ORDER BY issued_at DESC, id DESC", ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list coupons", err)
	}
	defer rows.Close()

	out := []*coupon.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan coupon", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate coupons", err)
	}
	return out, nil
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		id, ownerID uuid.UUID
		kind        string
		source      string
		issuedAt    pgtype.Timestamptz
		expiresAt   pgtype.Timestamptz
		redeemed    bool
		redeemedAt  pgtype.Timestamptz
		itemID      pgtype.UUID
		itemKind    pgtype.Text
	)
	if err := row.Scan(&id, &ownerID, &kind, &source, &issuedAt, &expiresAt, &redeemed,
		&redeemedAt, &itemID, &itemKind); err != nil {
		return nil, err
	}

	k, err := boost.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	src, err := coupon.ParseSource(source)
	if err != nil {
		return nil, err
	}
	var ik *content.Kind
	if s := pgconv.StringPtrFromPgtype(itemKind); s != nil {
		parsed, err := content.ParseKind(*s)
		if err != nil {
			return nil, err
		}
		ik = &parsed
	}

	return coupon.Reconstruct(
		id, ownerID, k, src,
		issuedAt.Time.UTC(),
		pgconv.TimePtrFromPgtype(expiresAt),
		redeemed,
		pgconv.TimePtrFromPgtype(redeemedAt),
		pgconv.UUIDPtrFromPgtype(itemID),
		ik,
	), nil
}
