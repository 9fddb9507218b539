package planner

import (
	"errors"
	"fmt"

	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/strategy"
	"github.com/claude/mesoplan/internal/template"
)

// ErrNoTemplate means no split template exists for the profile's days and
// goal. Retrying without changing the profile will fail the same way.
var ErrNoTemplate = errors.New("no plan possible for this profile: no split template")

// NewBlueprint resolves a profile into a blueprint. It fails only when the
// template source has nothing for the profile.
func NewBlueprint(profile models.UserProfile, strategies strategy.Resolver, templates template.Source) (models.MesocycleBlueprint, error) {
	tpl, ok := templates.Lookup(profile.DaysAvailable, profile.Goal)
	if !ok {
		return models.MesocycleBlueprint{}, fmt.Errorf("%w (days=%d goal=%q)", ErrNoTemplate, profile.DaysAvailable, profile.Goal)
	}
	return models.MesocycleBlueprint{
		Profile:  profile,
		Strategy: strategies.Resolve(profile.TrainingAge),
		Template: &tpl,
	}, nil
}
