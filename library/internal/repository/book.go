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

var bookColumns = []string{"id", "key", "title", "publication_year", "created_at", "updated_at"}

func (r *repository) ListBooks(ctx context.Context, paging model.Paging) ([]model.BookWithAuthors, error) {
	query, args, err := paginate(qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("id"), paging).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "ListBooks ToSql")
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, err
	}
	return withAuthors(ctx, r.db, books)
}

func (r *repository) GetBook(ctx context.Context, key string) (model.BookWithAuthors, error) {
	book, err := bookBy(ctx, r.db, sq.Eq{"key": key}, false)
	if err != nil {
		return model.BookWithAuthors{}, err
	}
	books, err := withAuthors(ctx, r.db, []model.Book{book})
	if err != nil {
		return model.BookWithAuthors{}, err
	}
	return books[0], nil
}

// CreateBook inserts the book and attaches the authors in a single transaction.
func (r *repository) CreateBook(ctx context.Context, book model.Book, authorKeys []string) (model.BookWithAuthors, error) {
	var out model.BookWithAuthors
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query, args, err := qb.Insert(booksTableName).
			Columns("key", "title", "publication_year").
			Values(book.Key, book.Title, book.PublicationYear).
			Suffix("returning " + strings.Join(bookColumns, ", ")).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "CreateBook ToSql")
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
		if err != nil {
			return err
		}
		authors, err := replaceAuthors(ctx, tx, created.ID, authorKeys)
		if err != nil {
			return err
		}
		out = model.BookWithAuthors{Book: created, Authors: authors}
		return nil
	})
	return out, mapErr(err)
}

// UpdateBook writes the changed columns. A nil authorKeys leaves the author set
// as is. The update takes the row lock before the authors are touched.
func (r *repository) UpdateBook(ctx context.Context, key string, changes model.BookChanges, authorKeys []string) (model.BookWithAuthors, error) {
	var out model.BookWithAuthors
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		upd := qb.Update(booksTableName)
		if changes.Title != nil {
			upd = upd.Set("title", *changes.Title)
		}
		if changes.PublicationYear != nil {
			upd = upd.Set("publication_year", *changes.PublicationYear)
		}
		query, args, err := upd.
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"key": key}).
			Suffix("returning " + strings.Join(bookColumns, ", ")).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "UpdateBook ToSql")
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
		if err != nil {
			return err
		}
		var authors []model.Author
		if authorKeys != nil {
			authors, err = replaceAuthors(ctx, tx, updated.ID, authorKeys)
		} else {
			var byBook map[int][]model.Author
			byBook, err = authorsByBook(ctx, tx, []int{updated.ID})
			authors = byBook[updated.ID]
		}
		if err != nil {
			return err
		}
		out = model.BookWithAuthors{Book: updated, Authors: authors}
		return nil
	})
	return out, mapErr(err)
}

func (r *repository) ReplaceAuthors(ctx context.Context, bookKey string, authorKeys []string) (model.BookWithAuthors, error) {
	var out model.BookWithAuthors
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		book, err := bookBy(ctx, tx, sq.Eq{"key": bookKey}, true)
		if err != nil {
			return err
		}
		authors, err := replaceAuthors(ctx, tx, book.ID, authorKeys)
		if err != nil {
			return err
		}
		out = model.BookWithAuthors{Book: book, Authors: authors}
		return nil
	})
	return out, mapErr(err)
}

func (r *repository) DeleteBook(ctx context.Context, key string) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "DeleteBook ToSql")
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func bookBy(ctx context.Context, q querier, where sq.Eq, forUpdate bool) (model.Book, error) {
	b := qb.Select(bookColumns...).
		From(booksTableName).
		Where(where)
	if forUpdate {
		b = b.Suffix("for update")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Book{}, errors.Wrap(err, "bookBy ToSql")
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	return book, mapErr(err)
}

func withAuthors(ctx context.Context, q querier, books []model.Book) ([]model.BookWithAuthors, error) {
	ids := make([]int, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	byBook, err := authorsByBook(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.BookWithAuthors, 0, len(books))
	for _, b := range books {
		out = append(out, model.BookWithAuthors{Book: b, Authors: byBook[b.ID]})
	}
	return out, nil
}

// replaceAuthors makes the author set of the book exactly the authors found
// for keys. The caller must hold the book row lock inside tx.
func replaceAuthors(ctx context.Context, tx pgx.Tx, bookID int, keys []string) ([]model.Author, error) {
	target, err := authorsByKeys(ctx, tx, keys)
	if err != nil {
		return nil, err
	}
	targetIDs := make([]int, 0, len(target))
	for _, a := range target {
		targetIDs = append(targetIDs, a.ID)
	}

	query, args, err := qb.Select("author_id").
		From(authorBookTableName).
		Where(sq.Eq{"book_id": bookID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "replaceAuthors ToSql")
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	currentIDs, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, err
	}

	attach, detach := syncDiff(currentIDs, targetIDs)
	if len(detach) > 0 {
		query, args, err = qb.Delete(authorBookTableName).
			Where(sq.Eq{"book_id": bookID, "author_id": detach}).
			ToSql()
		if err != nil {
			return nil, errors.Wrap(err, "replaceAuthors detach ToSql")
		}
		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return nil, err
		}
	}
	if len(attach) > 0 {
		ins := qb.Insert(authorBookTableName).Columns("author_id", "book_id")
		for _, id := range attach {
			ins = ins.Values(id, bookID)
		}
		query, args, err = ins.Suffix("on conflict do nothing").ToSql()
		if err != nil {
			return nil, errors.Wrap(err, "replaceAuthors attach ToSql")
		}
		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return nil, err
		}
	}
	return target, nil
}

// syncDiff returns the ids to attach (in target, not in current) and to
// detach (in current, not in target). Both keep the order of their source.
func syncDiff(current, target []int) (attach, detach []int) {
	in := func(set []int) map[int]struct{} {
		m := make(map[int]struct{}, len(set))
		for _, id := range set {
			m[id] = struct{}{}
		}
		return m
	}
	cur, tgt := in(current), in(target)
	for _, id := range target {
		if _, ok := cur[id]; !ok {
			attach = append(attach, id)
			cur[id] = struct{}{}
		}
	}
	for _, id := range current {
		if _, ok := tgt[id]; !ok {
			detach = append(detach, id)
			tgt[id] = struct{}{}
		}
	}
	return attach, detach
}
