package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/powergridhq/disco-analytics/models"
	"gorm.io/gorm"
)

// LocationRepositoryImpl implements LocationRepository
type LocationRepositoryImpl struct {
	*BaseRepository[models.Feeder]
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &LocationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Feeder](db),
	}
}

// ListStates returns every state ordered by name
func (r *LocationRepositoryImpl) ListStates(ctx context.Context) ([]*models.State, error) {
	db := r.getDB(ctx)
	var states []*models.State
	if err := db.Order("name").Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	return states, nil
}

// StateByNameOrSlug finds a state case-insensitively by name or exactly by slug
func (r *LocationRepositoryImpl) StateByNameOrSlug(ctx context.Context, key string) (*models.State, error) {
	db := r.getDB(ctx)
	var state models.State
	err := db.Where("LOWER(name) = LOWER(?) OR slug = ?", key, key).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// DistrictsOfState returns the business districts of one state ordered by name
func (r *LocationRepositoryImpl) DistrictsOfState(ctx context.Context, stateID uint) ([]*models.BusinessDistrict, error) {
	db := r.getDB(ctx)
	var districts []*models.BusinessDistrict
	if err := db.Where("state_id = ?", stateID).Order("name").Find(&districts).Error; err != nil {
		return nil, fmt.Errorf("failed to list districts of state %d: %w", stateID, err)
	}
	return districts, nil
}

// DistrictByNameOrSlug finds a district case-insensitively by name or exactly by slug
func (r *LocationRepositoryImpl) DistrictByNameOrSlug(ctx context.Context, key string) (*models.BusinessDistrict, error) {
	db := r.getDB(ctx)
	var district models.BusinessDistrict
	err := db.Where("LOWER(name) = LOWER(?) OR slug = ?", key, key).First(&district).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &district, nil
}

// ListBands returns every service band ordered by name
func (r *LocationRepositoryImpl) ListBands(ctx context.Context) ([]*models.Band, error) {
	db := r.getDB(ctx)
	var bands []*models.Band
	if err := db.Order("name").Find(&bands).Error; err != nil {
		return nil, fmt.Errorf("failed to list bands: %w", err)
	}
	return bands, nil
}

// FeederIDsOfState resolves a state name or slug to feeder IDs
func (r *LocationRepositoryImpl) FeederIDsOfState(ctx context.Context, key string) ([]uint, error) {
	db := r.getDB(ctx)
	var ids []uint
	err := db.Model(&models.Feeder{}).
		Joins("JOIN business_districts ON business_districts.id = feeders.business_district_id").
		Joins("JOIN states ON states.id = business_districts.state_id").
		Where("LOWER(states.name) = LOWER(?) OR states.slug = ?", key, key).
		Pluck("feeders.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state %q: %w", key, err)
	}
	return ids, nil
}

// FeederIDsOfDistrict resolves a business-district name or slug to feeder IDs
func (r *LocationRepositoryImpl) FeederIDsOfDistrict(ctx context.Context, key string) ([]uint, error) {
	db := r.getDB(ctx)
	var ids []uint
	err := db.Model(&models.Feeder{}).
		Joins("JOIN business_districts ON business_districts.id = feeders.business_district_id").
		Where("LOWER(business_districts.name) = LOWER(?) OR business_districts.slug = ?", key, key).
		Pluck("feeders.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve district %q: %w", key, err)
	}
	return ids, nil
}

// FeederIDsOfSubstation resolves an injection-substation name or slug to feeder IDs
func (r *LocationRepositoryImpl) FeederIDsOfSubstation(ctx context.Context, key string) ([]uint, error) {
	db := r.getDB(ctx)
	var ids []uint
	err := db.Model(&models.Feeder{}).
		Joins("JOIN injection_substations ON injection_substations.id = feeders.substation_id").
		Where("LOWER(injection_substations.name) = LOWER(?) OR injection_substations.slug = ?", key, key).
		Pluck("feeders.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve substation %q: %w", key, err)
	}
	return ids, nil
}

// FeederIDsOfFeeder resolves a feeder name or slug to its ID
func (r *LocationRepositoryImpl) FeederIDsOfFeeder(ctx context.Context, key string) ([]uint, error) {
	db := r.getDB(ctx)
	var ids []uint
	err := db.Model(&models.Feeder{}).
		Where("LOWER(name) = LOWER(?) OR slug = ?", key, key).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve feeder %q: %w", key, err)
	}
	return ids, nil
}

// FeederIDsOfTransformer resolves a transformer name or slug to its feeder's ID
func (r *LocationRepositoryImpl) FeederIDsOfTransformer(ctx context.Context, key string) ([]uint, error) {
	db := r.getDB(ctx)
	var ids []uint
	err := db.Model(&models.DistributionTransformer{}).
		Where("LOWER(name) = LOWER(?) OR slug = ?", key, key).
		Distinct().
		Pluck("feeder_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transformer %q: %w", key, err)
	}
	return ids, nil
}

// FeederIDsOfBand resolves a band name to the feeders tagged with it
func (r *LocationRepositoryImpl) FeederIDsOfBand(ctx context.Context, key string) ([]uint, error) {
	db := r.getDB(ctx)
	var ids []uint
	err := db.Model(&models.Feeder{}).
		Joins("JOIN bands ON bands.id = feeders.band_id").
		Where("LOWER(bands.name) = LOWER(?)", key).
		Pluck("feeders.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve band %q: %w", key, err)
	}
	return ids, nil
}

// FeederIDsOfDistrictIDs returns the feeders belonging to the given districts
func (r *LocationRepositoryImpl) FeederIDsOfDistrictIDs(ctx context.Context, districtIDs []uint) ([]uint, error) {
	if len(districtIDs) == 0 {
		return nil, nil
	}
	db := r.getDB(ctx)
	var ids []uint
	err := db.Model(&models.Feeder{}).
		Where("business_district_id IN ?", districtIDs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve district feeders: %w", err)
	}
	return ids, nil
}

// FeedersInScope returns feeders in the scope with band and district preloaded
func (r *LocationRepositoryImpl) FeedersInScope(ctx context.Context, scope models.FeederScope) ([]*models.Feeder, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	db := r.getDB(ctx)
	query := db.Preload("Band").Preload("BusinessDistrict").Preload("Substation").Order("name")
	if !scope.Unrestricted {
		query = query.Where("id IN ?", scope.FeederIDs)
	}
	var feeders []*models.Feeder
	if err := query.Find(&feeders).Error; err != nil {
		return nil, fmt.Errorf("failed to list feeders in scope: %w", err)
	}
	return feeders, nil
}

// TransformersInScope returns transformers attached to feeders in the scope
func (r *LocationRepositoryImpl) TransformersInScope(ctx context.Context, scope models.FeederScope) ([]*models.DistributionTransformer, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	db := r.getDB(ctx)
	query := db.Preload("Feeder").Order("name")
	if !scope.Unrestricted {
		query = query.Where("feeder_id IN ?", scope.FeederIDs)
	}
	var transformers []*models.DistributionTransformer
	if err := query.Find(&transformers).Error; err != nil {
		return nil, fmt.Errorf("failed to list transformers in scope: %w", err)
	}
	return transformers, nil
}

// DistrictIDsInScope returns the distinct business districts of the scope's feeders
func (r *LocationRepositoryImpl) DistrictIDsInScope(ctx context.Context, scope models.FeederScope) ([]uint, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	db := r.getDB(ctx)
	query := db.Model(&models.Feeder{}).Distinct()
	if !scope.Unrestricted {
		query = query.Where("id IN ?", scope.FeederIDs)
	}
	var ids []uint
	if err := query.Pluck("business_district_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve scope districts: %w", err)
	}
	return ids, nil
}
