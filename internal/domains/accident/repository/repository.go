package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/domains/accident/model"
	gDto "fleet/shared/dto"
	gRepo "fleet/shared/repository"
)

type Accident interface {
	Insert(ctx context.Context, model model.Accident) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Accident, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Accident, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Accident]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Accident {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Accident](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
