package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

// RevokeToken denylists jti until expiresAt and prunes entries that already expired.
func (r *repository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	query, args, err := qb.Insert(revokedTokensTableName).
		Columns("jti", "expires_at").
		Values(jti, expiresAt.UTC()).
		Suffix("on conflict (jti) do nothing").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "RevokeToken ToSql")
	}
	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		return err
	}

	query, args, err = qb.Delete(revokedTokensTableName).
		Where(sq.Lt{"expires_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "RevokeToken prune ToSql")
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	query, args, err := qb.Select("1").
		Prefix("select exists (").
		From(revokedTokensTableName).
		Where(sq.Eq{"jti": jti}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "IsTokenRevoked ToSql")
	}
	var revoked bool
	if err = r.db.QueryRow(ctx, query, args...).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}
