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

var authorColumns = []string{"id", "key", "name", "birth_date", "created_at", "updated_at"}

func (r *repository) ListAuthors(ctx context.Context, paging model.Paging) ([]model.Author, error) {
	query, args, err := paginate(qb.Select(authorColumns...).
		From(authorsTableName).
		OrderBy("id"), paging).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "ListAuthors ToSql")
	}
	r.log.Debug("ListAuthors", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
}

func (r *repository) GetAuthor(ctx context.Context, key string) (model.Author, error) {
	query, args, err := qb.Select(authorColumns...).
		From(authorsTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return model.Author{}, errors.Wrap(err, "GetAuthor ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, err
	}
	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	return author, mapErr(err)
}

func (r *repository) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	query, args, err := qb.Insert(authorsTableName).
		Columns("key", "name", "birth_date").
		Values(author.Key, author.Name, author.BirthDate).
		Suffix("returning " + strings.Join(authorColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Author{}, errors.Wrap(err, "CreateAuthor ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, mapErr(err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	return created, mapErr(err)
}

// UpdateAuthor writes only the changed columns in a single statement.
func (r *repository) UpdateAuthor(ctx context.Context, key string, changes model.AuthorChanges) (model.Author, error) {
	upd := qb.Update(authorsTableName)
	if changes.Name != nil {
		upd = upd.Set("name", *changes.Name)
	}
	if changes.BirthDate != nil {
		upd = upd.Set("birth_date", *changes.BirthDate)
	}
	query, args, err := upd.
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"key": key}).
		Suffix("returning " + strings.Join(authorColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Author{}, errors.Wrap(err, "UpdateAuthor ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, mapErr(err)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	return updated, mapErr(err)
}

// DeleteAuthor removes the author; its pivot rows go with it.
func (r *repository) DeleteAuthor(ctx context.Context, key string) error {
	query, args, err := qb.Delete(authorsTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "DeleteAuthor ToSql")
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

// authorsByKeys resolves keys to authors ordered by id. Unknown keys are dropped.
func authorsByKeys(ctx context.Context, q querier, keys []string) ([]model.Author, error) {
	if len(keys) == 0 {
		return []model.Author{}, nil
	}
	query, args, err := qb.Select(authorColumns...).
		From(authorsTableName).
		Where(sq.Eq{"key": keys}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "authorsByKeys ToSql")
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
}

// authorsByBook loads the author sets of several books in one query.
func authorsByBook(ctx context.Context, q querier, bookIDs []int) (map[int][]model.Author, error) {
	out := make(map[int][]model.Author, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	query, args, err := qb.Select("ab.book_id", "a.id", "a.key", "a.name", "a.birth_date", "a.created_at", "a.updated_at").
		From(authorBookTableName + " ab").
		Join(authorsTableName + " a on a.id = ab.author_id").
		Where(sq.Eq{"ab.book_id": bookIDs}).
		OrderBy("ab.book_id", "a.id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "authorsByBook ToSql")
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID int
			a      model.Author
		)
		if err = rows.Scan(&bookID, &a.ID, &a.Key, &a.Name, &a.BirthDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out[bookID] = append(out[bookID], a)
	}
	return out, rows.Err()
}
