package service

import (
	"context"
	"time"

	"fleet-rental-backend/internal/authz"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/repository"
)

// fleetReportPageSize bounds how many vehicles a single List call
// pulls while the fleet report walks the whole active fleet.
const fleetReportPageSize = 200

type reportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

// VehicleProfitability rolls up COMPLETED rental revenue against
// recorded expenses for one vehicle over [from, to]. Zero revenue or
// zero expenses yield zero ratios, never a division error.
func (s *reportService) VehicleProfitability(ctx context.Context, actor authz.Actor, vehicleID int64, from, to time.Time) (*VehicleProfitability, error) {
	if err := authz.Require(actor, authz.ActionViewReports); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	revenue, err := repos.Rentals.SumCompletedTotals(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := repos.Expenses.SumByVehicle(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	return buildProfitability(vehicleID, revenue, expenses), nil
}

func (s *reportService) FleetProfitability(ctx context.Context, actor authz.Actor, from, to time.Time) ([]VehicleProfitability, error) {
	if err := authz.Require(actor, authz.ActionViewReports); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	var results []VehicleProfitability
	for page := 1; ; page++ {
		vehicles, total, err := repos.Vehicles.List(ctx, "", page, fleetReportPageSize)
		if err != nil {
			return nil, err
		}
		for _, v := range vehicles {
			revenue, err := repos.Rentals.SumCompletedTotals(ctx, v.ID, from, to)
			if err != nil {
				return nil, err
			}
			expenses, err := repos.Expenses.SumByVehicle(ctx, v.ID, from, to)
			if err != nil {
				return nil, err
			}
			results = append(results, *buildProfitability(v.ID, revenue, expenses))
		}
		if len(vehicles) == 0 || page*fleetReportPageSize >= total {
			break
		}
	}
	if results == nil {
		results = []VehicleProfitability{}
	}
	return results, nil
}

func buildProfitability(vehicleID, revenueCents, expenseCents int64) *VehicleProfitability {
	p := &VehicleProfitability{
		VehicleID:      vehicleID,
		RevenueCents:   revenueCents,
		ExpenseCents:   expenseCents,
		NetProfitCents: revenueCents - expenseCents,
	}
	if revenueCents > 0 {
		p.ProfitMargin = money.RoundPercent(float64(p.NetProfitCents) / float64(revenueCents) * 100)
	}
	if expenseCents > 0 {
		p.ROI = money.RoundPercent(float64(p.NetProfitCents) / float64(expenseCents) * 100)
	}
	return p
}
