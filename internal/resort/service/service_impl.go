package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	resortdomain "github.com/dkugroup/resortops/internal/resort/domain"
	"github.com/dkugroup/resortops/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	resortrepo repository.Repository[resortdomain.Resort]
}

func NewService(p ServiceParam) resortdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("resort.service"),
		genID: p.GenID,

		resortrepo: repository.ProvideStore[resortdomain.Resort](p.DB),
	}
}

func (s *Service) GetResort(ctx context.Context, id snowflake.ID) (*resortdomain.Resort, error) {
	return s.resortrepo.FindOne(ctx, &resortdomain.Resort{ID: id})
}

func (s *Service) Create(ctx context.Context, req resortdomain.CreateRequest) (*resortdomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, resortdomain.ErrInvalidName
	}
	legal := strings.TrimSpace(req.LegalEntityName)
	if legal == "" {
		legal = name
	}

	now := time.Now().UTC()
	resort := resortdomain.Resort{
		ID:              s.genID.Generate(),
		Name:            name,
		LegalEntityName: legal,
		BillingAddress:  strings.TrimSpace(req.BillingAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.resortrepo.Create(ctx, &resort); err != nil {
		return nil, err
	}

	resp := toResponse(&resort)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]resortdomain.Response, error) {
	resorts, err := s.resortrepo.Find(ctx, &resortdomain.Resort{})
	if err != nil {
		return nil, err
	}

	out := make([]resortdomain.Response, 0, len(resorts))
	for _, resort := range resorts {
		out = append(out, toResponse(resort))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*resortdomain.Response, error) {
	resortID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, resortdomain.ErrInvalidID
	}

	resort, err := s.GetResort(ctx, resortID)
	if err != nil {
		return nil, err
	}
	if resort == nil {
		return nil, resortdomain.ErrNotFound
	}

	resp := toResponse(resort)
	return &resp, nil
}

func toResponse(resort *resortdomain.Resort) resortdomain.Response {
	return resortdomain.Response{
		ID:              resort.ID.String(),
		Name:            resort.Name,
		LegalEntityName: resort.LegalEntityName,
		BillingAddress:  resort.BillingAddress,
		CreatedAt:       resort.CreatedAt,
	}
}
