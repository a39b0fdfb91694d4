package service

import (
	"context"
	"encoding/json"

	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/deppfellow/travel-sync/internal/repository"
	"github.com/deppfellow/travel-sync/internal/server"
)

type TravelPlanService struct {
	server *server.Server
	repo   repository.TravelPlans
}

func NewTravelPlanService(s *server.Server, repo repository.TravelPlans) *TravelPlanService {
	return &TravelPlanService{server: s, repo: repo}
}

// List returns the plans of one user. No plans is an empty list, never nil.
func (s *TravelPlanService) List(ctx context.Context, userID string) ([]model.TravelPlan, error) {
	plans, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []model.TravelPlan{}
	}
	return plans, nil
}

// Upsert stores the full record, filling omitted list fields with [].
func (s *TravelPlanService) Upsert(ctx context.Context, plan *model.TravelPlan) error {
	plan.ApplyDefaults()
	return s.repo.Upsert(ctx, plan)
}

// Patch updates the recognized fields in updates and ignores the rest.
//
// Nothing recognized means nothing is written.
func (s *TravelPlanService) Patch(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	set, err := assignments(model.PlanPatchFields, updates)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		s.server.Logger.Debug().Str("travel_plan_id", id).Msg("patch has no recognized fields")
		return nil
	}
	return s.repo.Patch(ctx, id, set)
}

func (s *TravelPlanService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
