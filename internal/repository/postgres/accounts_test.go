package postgres

import (
	"context"
	"testing"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIdentityRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewIdentityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		u := &domain.Identity{Email: "new@test.com", PasswordHash: "hash"}
		mock.ExpectExec("INSERT INTO identities").
			WithArgs(sqlmock.AnyArg(), u.Email, u.PasswordHash, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, u)
		assert.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("Duplicate email", func(t *testing.T) {
		u := &domain.Identity{Email: "dup@test.com", PasswordHash: "hash"}
		mock.ExpectExec("INSERT INTO identities").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "identities_email_key"})

		err := repo.Create(ctx, u)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewIdentityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", "a@test.com", "hash", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM identities WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("A@test.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(ctx, "A@test.com")
		assert.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, "hash", u.PasswordHash)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM identities").
			WithArgs("none@test.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

		u, err := repo.GetByEmail(ctx, "none@test.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, u)
	})
}

func TestIdentityRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewIdentityRepository(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM identities WHERE id = \\$1").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "u1"))

	mock.ExpectExec("DELETE FROM identities WHERE id = \\$1").
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "gone"), repository.ErrNotFound)
}

func TestRoleRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRoleRepository(db)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO user_roles").
			WithArgs("u1", domain.RoleOwner, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, &domain.RoleAssignment{UserID: "u1", Role: domain.RoleOwner})
		assert.NoError(t, err)
	})

	t.Run("Missing identity", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO user_roles").
			WillReturnError(&pq.Error{Code: "23503", Constraint: "user_roles_user_id_fkey"})

		err := repo.Create(ctx, &domain.RoleAssignment{UserID: "ghost", Role: domain.RoleOwner})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListByUser oldest first", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"user_id", "role", "created_at"}).
			AddRow("u1", "renter", now.Add(-time.Hour)).
			AddRow("u1", "owner", now)
		mock.ExpectQuery("SELECT (.+) FROM user_roles WHERE user_id = \\$1 ORDER BY created_at ASC").
			WithArgs("u1").
			WillReturnRows(rows)

		roles, err := repo.ListByUser(ctx, "u1")
		assert.NoError(t, err)
		assert.Len(t, roles, 2)
		assert.Equal(t, domain.RoleRenter, roles[0].Role)
	})
}

func TestProfileRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewProfileRepository(db)
	mock.ExpectExec("INSERT INTO user_profiles").
		WithArgs("u1", "a@test.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), &domain.Profile{UserID: "u1", Email: "a@test.com"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
