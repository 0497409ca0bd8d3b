package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"attendform/internal/domain/form"
	"attendform/internal/utils/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	a := m.Called(ctx, sql, args)
	return a.Get(0).(pgconn.CommandTag), a.Error(1)
}

func (m *MockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	a := m.Called(ctx, sql, args)
	return a.Get(0).(pgx.Row)
}

// row отдает заранее заданные данные или ошибку
type row struct {
	data []byte
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func TestStorage_Get(t *testing.T) {
	const query = "SELECT data FROM form_records WHERE key = $1"

	tests := []struct {
		name    string
		row     row
		want    string
		wantErr error
	}{
		{name: "found", row: row{data: []byte(`{"name":"kim"}`)}, want: `{"name":"kim"}`},
		{name: "not found", row: row{err: pgx.ErrNoRows}, wantErr: form.ErrNotFound},
		{name: "db error", row: row{err: errors.New("conn reset")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockQuerier)
			q.On("QueryRow", mock.Anything, query, []any{"absence:1"}).Return(tt.row)

			s := NewWithQuerier(q, logger.Discard())
			got, err := s.Get(context.Background(), "absence:1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.row.err != nil:
				assert.ErrorIs(t, err, tt.row.err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, string(got))
			}
			q.AssertExpectations(t)
		})
	}
}

func TestStorage_Put(t *testing.T) {
	q := new(MockQuerier)
	value := []byte(`{"name":"kim"}`)
	q.On("Exec", mock.Anything,
		mock.MatchedBy(func(sql string) bool {
			return strings.HasPrefix(sql, "INSERT INTO form_records (key,data,updated_at) VALUES ($1,$2,now())") &&
				strings.Contains(sql, "ON CONFLICT (key) DO UPDATE")
		}),
		[]any{"absence:1", value},
	).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	s := NewWithQuerier(q, logger.Discard())
	require.NoError(t, s.Put(context.Background(), "absence:1", value))
	q.AssertExpectations(t)
}

func TestStorage_PutError(t *testing.T) {
	q := new(MockQuerier)
	boom := errors.New("read only")
	q.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return(pgconn.CommandTag{}, boom)

	s := NewWithQuerier(q, logger.Discard())
	assert.ErrorIs(t, s.Put(context.Background(), "k", []byte(`{}`)), boom)
}

func TestStorage_Delete(t *testing.T) {
	q := new(MockQuerier)
	q.On("Exec", mock.Anything, "DELETE FROM form_records WHERE key = $1", []any{"change:2"}).
		Return(pgconn.NewCommandTag("DELETE 1"), nil)

	s := NewWithQuerier(q, logger.Discard())
	require.NoError(t, s.Delete(context.Background(), "change:2"))
	q.AssertExpectations(t)
}
