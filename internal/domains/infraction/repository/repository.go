package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/domains/infraction/model"
	gDto "fleet/shared/dto"
	gRepo "fleet/shared/repository"
)

type Infraction interface {
	Insert(ctx context.Context, model model.Infraction) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Infraction, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Infraction, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Infraction]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Infraction {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Infraction](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
