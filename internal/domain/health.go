package domain

import (
	"context"

	"github.com/questx-lab/interaction/internal/model"
)

type HealthDomain interface {
	Check(context.Context, *model.HealthRequest) (*model.HealthResponse, error)
}

type healthDomain struct{}

func NewHealthDomain() *healthDomain {
	return &healthDomain{}
}

func (d *healthDomain) Check(context.Context, *model.HealthRequest) (*model.HealthResponse, error) {
	return &model.HealthResponse{Status: "ok"}, nil
}
