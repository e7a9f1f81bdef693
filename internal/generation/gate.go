package generation

import (
	"context"
	"fmt"

	"github.com/bloomcrate/bloomcrate-backend/internal/schedule"
)

type settingsResolver interface {
	ResolveConfig(ctx context.Context) (schedule.Config, error)
}

// PlanGate decides whether a box type may receive orders. The box plan
// must exist and be enabled, and the type must not be switched off via
// the disabledBoxTypes store setting.
type PlanGate struct {
	plans    planChecker
	settings settingsResolver
}

// NewPlanGate wires the plan gate.
func NewPlanGate(plans planChecker, settings settingsResolver) (*PlanGate, error) {
	if plans == nil {
		return nil, fmt.Errorf("plan checker is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings resolver is required")
	}
	return &PlanGate{plans: plans, settings: settings}, nil
}

// PlanEnabled implements the batch plan check with the settings overlay.
func (g *PlanGate) PlanEnabled(ctx context.Context, boxType string) (bool, error) {
	cfg, err := g.settings.ResolveConfig(ctx)
	if err != nil {
		return false, fmt.Errorf("resolving schedule config: %w", err)
	}
	if cfg.BoxTypeDisabled(boxType) {
		return false, nil
	}
	return g.plans.PlanEnabled(ctx, boxType)
}
