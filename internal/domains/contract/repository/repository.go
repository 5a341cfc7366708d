package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/domains/contract/model"
	gDto "fleet/shared/dto"
	gRepo "fleet/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Contract interface {
	Insert(ctx context.Context, model model.Contract) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Contract) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Contract, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Contract, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Contract, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Contract]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Contract {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Contract](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
