package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/domains/revenue/model"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/logger"
	gRepo "fleet/shared/repository"
	"fleet/shared/timezone"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Revenue interface {
	Insert(ctx context.Context, model model.Revenue) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Revenue) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Revenue, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Revenue, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	SumAmount(ctx context.Context, filter gDto.FilterGroup) (float64, error)
	MonthlyTotals(ctx context.Context, year int) ([]model.MonthlyTotal, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Revenue]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Revenue {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Revenue](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// SumAmount totals the amount column over the filtered rows.
func (repo *repositoryImpl) SumAmount(ctx context.Context, filter gDto.FilterGroup) (float64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".revenue.SumAmount")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s.%s), 0) FROM %s %s", model.TableName, model.FieldAmount, model.TableName, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var total float64

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &total, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return total, nil
}

// MonthlyTotals sums revenue per calendar month of the given year.
// Months without entries are absent from the result.
func (repo *repositoryImpl) MonthlyTotals(ctx context.Context, year int) ([]model.MonthlyTotal, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".revenue.MonthlyTotals")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT EXTRACT(MONTH FROM %s)::int AS month, COALESCE(SUM(%s), 0) AS total FROM %s WHERE %s >= :year_start AND %s < :year_end GROUP BY month ORDER BY month",
		model.FieldEntryDate, model.FieldAmount, model.TableName, model.FieldEntryDate, model.FieldEntryDate,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"year_start": time.Date(year, time.January, 1, 0, 0, 0, 0, timezone.GetLocation()),
		"year_end":   time.Date(year+1, time.January, 1, 0, 0, 0, 0, timezone.GetLocation()),
	}

	var totals []model.MonthlyTotal

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &totals, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}

	return totals, nil
}
