package postgres

import (
	"context"
	"errors"

	"github.com/atlasware/souq/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CouponStore implements domain.CouponStore using PostgreSQL.
type CouponStore struct {
	pool *pgxpool.Pool
}

var _ domain.CouponStore = (*CouponStore)(nil)

// NewCouponStore creates a PostgreSQL-backed coupon store.
func NewCouponStore(pool *pgxpool.Pool) *CouponStore {
	return &CouponStore{pool: pool}
}

const couponColumns = `id, code, percent, starts_at, ends_at, active, created_at`

func (s *CouponStore) GetByCode(ctx context.Context, code string) (domain.Coupon, error) {
	var c domain.Coupon
	err := s.pool.QueryRow(ctx, `
		SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code).
		Scan(&c.ID, &c.Code, &c.Percent, &c.StartsAt, &c.EndsAt, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Coupon{}, domain.ErrCouponNotFound
		}
		return domain.Coupon{}, domain.Internal(err, "coupon.get_by_code", "failed to get coupon")
	}
	return c, nil
}

func (s *CouponStore) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Internal(err, "coupon.list", "failed to list coupons")
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Percent, &c.StartsAt, &c.EndsAt, &c.Active, &c.CreatedAt); err != nil {
			return nil, domain.Internal(err, "coupon.list", "failed to scan coupon")
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (s *CouponStore) GetCoupon(ctx context.Context, id int64) (domain.Coupon, error) {
	var c domain.Coupon
	err := s.pool.QueryRow(ctx, `
		SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id).
		Scan(&c.ID, &c.Code, &c.Percent, &c.StartsAt, &c.EndsAt, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Coupon{}, domain.ErrCouponNotFound
		}
		return domain.Coupon{}, domain.Internal(err, "coupon.get", "failed to get coupon")
	}
	return c, nil
}

func (s *CouponStore) CreateCoupon(ctx context.Context, input domain.CouponInput) (domain.Coupon, error) {
	var c domain.Coupon
	err := s.pool.QueryRow(ctx, `
		INSERT INTO coupons (code, percent, starts_at, ends_at, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+couponColumns,
		input.Code, input.Percent, input.StartsAt, input.EndsAt, input.Active).
		Scan(&c.ID, &c.Code, &c.Percent, &c.StartsAt, &c.EndsAt, &c.Active, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Coupon{}, domain.Conflict("coupon.create", "Coupon code is already in use")
		}
		return domain.Coupon{}, domain.Internal(err, "coupon.create", "failed to create coupon")
	}
	return c, nil
}

func (s *CouponStore) UpdateCoupon(ctx context.Context, id int64, input domain.CouponInput) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE coupons SET code = $1, percent = $2, starts_at = $3, ends_at = $4, active = $5
		WHERE id = $6`,
		input.Code, input.Percent, input.StartsAt, input.EndsAt, input.Active, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("coupon.update", "Coupon code is already in use")
		}
		return domain.Internal(err, "coupon.update", "failed to update coupon")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (s *CouponStore) DeleteCoupon(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "coupon.delete", "failed to delete coupon")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}
