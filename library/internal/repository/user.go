package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/model"
	"go.uber.org/zap"
)

var userColumns = []string{"id", "name", "email", "password", "created_at", "updated_at"}

func (r *repository) ListUsers(ctx context.Context, paging model.Paging) ([]model.User, error) {
	query, args, err := paginate(qb.Select(userColumns...).
		From(usersTableName).
		OrderBy("id"), paging).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "ListUsers ToSql")
	}
	r.log.Debug("ListUsers", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
}

func (r *repository) GetUser(ctx context.Context, email string) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return model.User{}, errors.Wrap(err, "GetUser ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	return user, mapErr(err)
}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return r.insertUser(ctx, user, "")
}

// UpsertUser creates the user or overwrites name and password of the one
// holding the same email.
func (r *repository) UpsertUser(ctx context.Context, user model.User) (model.User, error) {
	return r.insertUser(ctx, user,
		"on conflict (email) do update set name = excluded.name, password = excluded.password, updated_at = now()")
}

func (r *repository) insertUser(ctx context.Context, user model.User, onConflict string) (model.User, error) {
	suffix := "returning " + strings.Join(userColumns, ", ")
	if onConflict != "" {
		suffix = onConflict + " " + suffix
	}
	query, args, err := qb.Insert(usersTableName).
		Columns("name", "email", "password").
		Values(user.Name, user.Email, user.Password).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return model.User{}, errors.Wrap(err, "insertUser ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	return created, mapErr(err)
}

func (r *repository) UpdateUser(ctx context.Context, email string, changes model.UserChanges) (model.User, error) {
	upd := qb.Update(usersTableName)
	if changes.Name != nil {
		upd = upd.Set("name", *changes.Name)
	}
	if changes.Password != nil {
		upd = upd.Set("password", *changes.Password)
	}
	query, args, err := upd.
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"email": email}).
		Suffix("returning " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return model.User{}, errors.Wrap(err, "UpdateUser ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, mapErr(err)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	return updated, mapErr(err)
}

func (r *repository) DeleteUser(ctx context.Context, email string) error {
	query, args, err := qb.Delete(usersTableName).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "DeleteUser ToSql")
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}
