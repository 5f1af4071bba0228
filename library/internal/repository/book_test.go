package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"github.com/vagnerhf/library/library/internal/errs"
	"github.com/vagnerhf/library/library/internal/model"
)

var (
	dune = model.Book{ID: 1, Key: "b1", Title: "Dune", PublicationYear: 1965, CreatedAt: stamp, UpdatedAt: stamp}

	frank = model.Author{ID: 1, Key: "k1", Name: "Frank Herbert", BirthDate: stamp, CreatedAt: stamp, UpdatedAt: stamp}
	brian = model.Author{ID: 2, Key: "k2", Name: "Brian Herbert", BirthDate: stamp, CreatedAt: stamp, UpdatedAt: stamp}
	kevin = model.Author{ID: 3, Key: "k3", Name: "Kevin J. Anderson", BirthDate: stamp, CreatedAt: stamp, UpdatedAt: stamp}
)

const lockSQL = `SELECT .* FROM books WHERE key = \$1 for update`

func authorKeys(authors []model.Author) []string {
	keys := make([]string, 0, len(authors))
	for _, a := range authors {
		keys = append(keys, a.Key)
	}
	return keys
}

func TestRepository_ReplaceAuthors(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepository(t)
	ctx := context.Background()

	// [k1,k2] on a book without authors attaches both
	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WithArgs("b1").WillReturnRows(bookRows(dune))
	mock.ExpectQuery(`FROM authors WHERE key IN \(\$1,\$2\) ORDER BY id`).WithArgs("k1", "k2").
		WillReturnRows(authorRows(frank, brian))
	mock.ExpectQuery(`SELECT author_id FROM author_book WHERE book_id = \$1`).WithArgs(1).
		WillReturnRows(pivotRows())
	mock.ExpectExec(`INSERT INTO author_book \(author_id,book_id\) VALUES \(\$1,\$2\),\(\$3,\$4\) on conflict do nothing`).
		WithArgs(1, 1, 2, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	got, err := repo.ReplaceAuthors(ctx, "b1", []string{"k1", "k2"})
	require.NoError(t, err)
	require.Equal(t, []string{"k1", "k2"}, authorKeys(got.Authors))

	// [k2,k3] detaches k1 and attaches only k3
	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WithArgs("b1").WillReturnRows(bookRows(dune))
	mock.ExpectQuery(`FROM authors WHERE key IN \(\$1,\$2\) ORDER BY id`).WithArgs("k2", "k3").
		WillReturnRows(authorRows(brian, kevin))
	mock.ExpectQuery(`SELECT author_id FROM author_book WHERE book_id = \$1`).WithArgs(1).
		WillReturnRows(pivotRows(1, 2))
	mock.ExpectExec(`DELETE FROM author_book WHERE author_id IN \(\$1\) AND book_id = \$2`).
		WithArgs(1, 1).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO author_book \(author_id,book_id\) VALUES \(\$1,\$2\) on conflict do nothing`).
		WithArgs(3, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	got, err = repo.ReplaceAuthors(ctx, "b1", []string{"k2", "k3"})
	require.NoError(t, err)
	require.Equal(t, []string{"k2", "k3"}, authorKeys(got.Authors))

	// the same set again writes nothing
	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WithArgs("b1").WillReturnRows(bookRows(dune))
	mock.ExpectQuery(`FROM authors WHERE key IN \(\$1,\$2\) ORDER BY id`).WithArgs("k2", "k3").
		WillReturnRows(authorRows(brian, kevin))
	mock.ExpectQuery(`SELECT author_id FROM author_book WHERE book_id = \$1`).WithArgs(1).
		WillReturnRows(pivotRows(2, 3))
	mock.ExpectCommit()

	got, err = repo.ReplaceAuthors(ctx, "b1", []string{"k2", "k3"})
	require.NoError(t, err)
	require.Equal(t, []string{"k2", "k3"}, authorKeys(got.Authors))
}

func TestRepository_ReplaceAuthorsUnknownBook(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WithArgs("nope").WillReturnRows(bookRows())
	mock.ExpectRollback()

	_, err := repo.ReplaceAuthors(context.Background(), "nope", []string{"k1"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_ReplaceAuthorsRollsBack(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).WithArgs("b1").WillReturnRows(bookRows(dune))
	mock.ExpectQuery(`FROM authors WHERE key IN \(\$1\) ORDER BY id`).WithArgs("k1").
		WillReturnRows(authorRows(frank))
	mock.ExpectQuery(`SELECT author_id FROM author_book WHERE book_id = \$1`).WithArgs(1).
		WillReturnRows(pivotRows())
	mock.ExpectExec(`INSERT INTO author_book`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "author_book_author_id_fkey"})
	mock.ExpectRollback()

	_, err := repo.ReplaceAuthors(context.Background(), "b1", []string{"k1"})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestRepository_UpdateBook(t *testing.T) {
	t.Parallel()

	t.Run("nil keys keep the authors", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepository(t)
		title := "Dune Messiah"
		updated := dune
		updated.Title = title

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE books SET title = \$1, updated_at = now\(\) WHERE key = \$2 returning`).
			WithArgs(title, "b1").
			WillReturnRows(bookRows(updated))
		mock.ExpectQuery(`FROM author_book ab JOIN authors a on a.id = ab.author_id WHERE ab.book_id IN \(\$1\)`).
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows([]string{"book_id", "id", "key", "name", "birth_date", "created_at", "updated_at"}).
				AddRow(1, frank.ID, frank.Key, frank.Name, frank.BirthDate, frank.CreatedAt, frank.UpdatedAt))
		mock.ExpectCommit()

		got, err := repo.UpdateBook(context.Background(), "b1", model.BookChanges{Title: &title}, nil)
		require.NoError(t, err)
		require.Equal(t, title, got.Title)
		require.Equal(t, 1965, got.PublicationYear)
		require.Equal(t, []string{"k1"}, authorKeys(got.Authors))
	})

	t.Run("empty keys clear the authors", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE books SET updated_at = now\(\) WHERE key = \$1 returning`).
			WithArgs("b1").
			WillReturnRows(bookRows(dune))
		mock.ExpectQuery(`SELECT author_id FROM author_book WHERE book_id = \$1`).WithArgs(1).
			WillReturnRows(pivotRows(1, 2))
		mock.ExpectExec(`DELETE FROM author_book WHERE author_id IN \(\$1,\$2\) AND book_id = \$3`).
			WithArgs(1, 2, 1).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mock.ExpectCommit()

		got, err := repo.UpdateBook(context.Background(), "b1", model.BookChanges{}, []string{})
		require.NoError(t, err)
		require.Empty(t, got.Authors)
	})

	t.Run("unknown book", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE books`).WithArgs("nope").WillReturnRows(bookRows())
		mock.ExpectRollback()

		_, err := repo.UpdateBook(context.Background(), "nope", model.BookChanges{}, nil)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestRepository_DeleteBook(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepository(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM books WHERE key = \$1`).WithArgs("b1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.DeleteBook(ctx, "b1"))

	mock.ExpectQuery(`FROM books WHERE key = \$1`).WithArgs("b1").WillReturnRows(bookRows())
	_, err := repo.GetBook(ctx, "b1")
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectExec(`DELETE FROM books WHERE key = \$1`).WithArgs("b1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, repo.DeleteBook(ctx, "b1"), errs.ErrNotFound)

	mock.ExpectExec(`DELETE FROM books WHERE key = \$1`).WithArgs("b2").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "loans_book_id_fkey"})
	require.ErrorIs(t, repo.DeleteBook(ctx, "b2"), errs.ErrConflict)
}

func TestRepository_ListBooksLoadsAuthorsInOneQuery(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepository(t)
	messiah := model.Book{ID: 2, Key: "b2", Title: "Dune Messiah", PublicationYear: 1969, CreatedAt: stamp, UpdatedAt: stamp}

	mock.ExpectQuery(`SELECT .* FROM books ORDER BY id LIMIT 2 OFFSET 0`).WillReturnRows(bookRows(dune, messiah))
	mock.ExpectQuery(`WHERE ab.book_id IN \(\$1,\$2\) ORDER BY ab.book_id, a.id`).WithArgs(1, 2).
		WillReturnRows(pgxmock.NewRows([]string{"book_id", "id", "key", "name", "birth_date", "created_at", "updated_at"}).
			AddRow(1, frank.ID, frank.Key, frank.Name, frank.BirthDate, frank.CreatedAt, frank.UpdatedAt).
			AddRow(2, frank.ID, frank.Key, frank.Name, frank.BirthDate, frank.CreatedAt, frank.UpdatedAt).
			AddRow(2, brian.ID, brian.Key, brian.Name, brian.BirthDate, brian.CreatedAt, brian.UpdatedAt))

	got, err := repo.ListBooks(context.Background(), model.Paging{Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, []string{"k1"}, authorKeys(got[0].Authors))
	require.Equal(t, []string{"k1", "k2"}, authorKeys(got[1].Authors))
}
