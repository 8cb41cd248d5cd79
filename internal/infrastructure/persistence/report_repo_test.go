package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/persistence"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/dbtest"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

func TestReportRepositorySave(t *testing.T) {
	rq := require.New(t)
	db, mock := dbtest.NewMock(t)

	report, err := entity.ParseReport(`{"meta":{"ticker":"AAPL"},"step_7_verdict":{"action":"BUY"}}`)
	rq.NoError(err)

	mock.ExpectExec(`INSERT INTO reports`).
		WithArgs(sqlmock.AnyArg(), "u1", "AAPL", sqlmock.AnyArg(), "gemini-2.5-flash", "BUY", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = persistence.NewReportRepository(db).Save(context.Background(), entity.SavedReport{
		UserID:  "u1",
		Ticker:  "AAPL",
		Report:  report,
		Model:   "gemini-2.5-flash",
		Verdict: "BUY",
	})
	rq.NoError(err)
}

func TestReportRepositoryListByUser(t *testing.T) {
	rq := require.New(t)
	db, mock := dbtest.NewMock(t)

	id := uuid.New()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "ticker", "report_data", "gemini_model", "verdict", "generated_at"}).
		AddRow(id.String(), "u1", "MSFT", []byte(`{"meta":{"company_name":"Microsoft"}}`), "m", "HOLD", now)

	mock.ExpectQuery(`(?s)SELECT .+FROM reports\s+WHERE user_id = \$1`).
		WithArgs("u1", 10).
		WillReturnRows(rows)

	reports, err := persistence.NewReportRepository(db).ListByUser(context.Background(), "u1", 10)
	rq.NoError(err)
	rq.Len(reports, 1)
	rq.Equal(id, reports[0].ID)
	rq.Equal("Microsoft", reports[0].Report.CompanyName())
	rq.Equal(now, reports[0].GeneratedAt)
}

func TestReportRepositoryExistsFails(t *testing.T) {
	rq := require.New(t)
	db, mock := dbtest.NewMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("u1", "AAPL").
		WillReturnError(errors.New("connection reset"))

	_, err := persistence.NewReportRepository(db).Exists(context.Background(), "u1", "AAPL")
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.InternalServerError))
}
