package businessflow

import (
	"context"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
)

// LocationResolver resolves a caller's geographic filter to a feeder scope
type LocationResolver interface {
	Resolve(ctx context.Context, filter models.LocationFilter) (models.FeederScope, error)
}

// LocationResolverImpl applies the most-specific-filter-wins rule over the
// five-level hierarchy. Band composes with (intersects) the result. A name
// that does not resolve yields the empty scope, not an error.
type LocationResolverImpl struct {
	locationRepo repository.LocationRepository
}

// NewLocationResolver creates a new location resolver
func NewLocationResolver(locationRepo repository.LocationRepository) LocationResolver {
	return &LocationResolverImpl{locationRepo: locationRepo}
}

func (r *LocationResolverImpl) Resolve(ctx context.Context, filter models.LocationFilter) (models.FeederScope, error) {
	base, restricted, err := r.resolveBase(ctx, filter)
	if err != nil {
		return models.FeederScope{}, err
	}

	if filter.Band == "" {
		if !restricted {
			return models.UnrestrictedScope(), nil
		}
		return models.ScopeOf(base...), nil
	}

	bandIDs, err := r.locationRepo.FeederIDsOfBand(ctx, filter.Band)
	if err != nil {
		return models.FeederScope{}, err
	}
	if !restricted {
		return models.ScopeOf(bandIDs...), nil
	}
	return models.ScopeOf(intersectIDs(base, bandIDs)...), nil
}

// resolveBase picks the narrowest geographic selector. The boolean reports
// whether any selector was present at all.
func (r *LocationResolverImpl) resolveBase(ctx context.Context, filter models.LocationFilter) ([]uint, bool, error) {
	switch {
	case filter.Transformer != "":
		ids, err := r.locationRepo.FeederIDsOfTransformer(ctx, filter.Transformer)
		return ids, true, err
	case filter.Feeder != "":
		ids, err := r.locationRepo.FeederIDsOfFeeder(ctx, filter.Feeder)
		return ids, true, err
	case filter.Substation != "":
		ids, err := r.locationRepo.FeederIDsOfSubstation(ctx, filter.Substation)
		return ids, true, err
	case filter.District != "":
		ids, err := r.locationRepo.FeederIDsOfDistrict(ctx, filter.District)
		return ids, true, err
	case filter.BusinessDistrict != "":
		ids, err := r.locationRepo.FeederIDsOfDistrict(ctx, filter.BusinessDistrict)
		return ids, true, err
	case filter.State != "":
		ids, err := r.locationRepo.FeederIDsOfState(ctx, filter.State)
		return ids, true, err
	default:
		return nil, false, nil
	}
}

func intersectIDs(a, b []uint) []uint {
	set := make(map[uint]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	out := make([]uint, 0, len(b))
	for _, id := range b {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
