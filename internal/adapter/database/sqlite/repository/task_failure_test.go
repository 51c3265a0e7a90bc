package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/sqlite"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/sqlite/repository"
)

// A broken backend must degrade the task list to empty, not surface a
// storage error to the caller.
func TestTaskRepository_GetAllByOwner_BackendFailure(t *testing.T) {
	RegisterTestingT(t)

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM tasks").
		WillReturnError(errors.New("disk I/O error"))

	repo := repository.NewTaskRepository(sqlite.Wrap(db))

	tasks := repo.GetAllByOwner(context.Background(), 1)

	Expect(tasks).NotTo(BeNil())
	Expect(tasks).To(BeEmpty())
	Expect(mock.ExpectationsWereMet()).To(Succeed())
}

func TestTaskRepository_GetAllByOwner_ScanFailure(t *testing.T) {
	RegisterTestingT(t)

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "uuid", "title", "description", "completed", "user_id", "created_at", "updated_at"}).
		AddRow("not-an-int", "bad", "bad", nil, false, 1, "bad", "bad")

	mock.ExpectQuery("SELECT (.+) FROM tasks").WillReturnRows(rows)

	repo := repository.NewTaskRepository(sqlite.Wrap(db))

	tasks := repo.GetAllByOwner(context.Background(), 1)

	Expect(tasks).To(BeEmpty())
}
