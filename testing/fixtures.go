package testing

import (
	"fmt"
	"time"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LocationFixture is a small two-state hierarchy shared by the DB-backed
// suites. Kano holds two districts with three feeders; Jigawa holds one
// district with one feeder.
type LocationFixture struct {
	Kano   models.State
	Jigawa models.State

	Dala   models.BusinessDistrict // Kano
	Kumbo  models.BusinessDistrict // Kano
	Dutse  models.BusinessDistrict // Jigawa

	DalaSub  models.InjectionSubstation
	KumboSub models.InjectionSubstation
	DutseSub models.InjectionSubstation

	BandA models.Band
	BandB models.Band

	DalaF1  models.Feeder // Dala, band A
	DalaF2  models.Feeder // Dala, band B
	KumboF1 models.Feeder // Kumbo, band A
	DutseF1 models.Feeder // Dutse, band A

	DalaF1T1 models.DistributionTransformer
	DalaF1T2 models.DistributionTransformer
	DutseF1T models.DistributionTransformer
}

// SeedLocationTree inserts the fixture hierarchy and returns it with IDs set
func SeedLocationTree(db *gorm.DB) (*LocationFixture, error) {
	f := &LocationFixture{}

	states := []*models.State{
		{Name: "Kano", Slug: utils.Slugify("Kano")},
		{Name: "Jigawa", Slug: utils.Slugify("Jigawa")},
	}
	for _, s := range states {
		if err := db.Create(s).Error; err != nil {
			return nil, fmt.Errorf("failed to seed state %s: %w", s.Name, err)
		}
	}
	f.Kano, f.Jigawa = *states[0], *states[1]

	districts := []*models.BusinessDistrict{
		{Name: "Dala", Slug: utils.Slugify("Dala"), StateID: f.Kano.ID},
		{Name: "Kumbotso", Slug: utils.Slugify("Kumbotso"), StateID: f.Kano.ID},
		{Name: "Dutse", Slug: utils.Slugify("Dutse"), StateID: f.Jigawa.ID},
	}
	for _, d := range districts {
		if err := db.Create(d).Error; err != nil {
			return nil, fmt.Errorf("failed to seed district %s: %w", d.Name, err)
		}
	}
	f.Dala, f.Kumbo, f.Dutse = *districts[0], *districts[1], *districts[2]

	subs := []*models.InjectionSubstation{
		{Name: "Dala 2x15MVA", Slug: utils.Slugify("Dala 2x15MVA"), DistrictID: f.Dala.ID},
		{Name: "Kumbotso 1x15MVA", Slug: utils.Slugify("Kumbotso 1x15MVA"), DistrictID: f.Kumbo.ID},
		{Name: "Dutse 2x7.5MVA", Slug: utils.Slugify("Dutse 2x7.5MVA"), DistrictID: f.Dutse.ID},
	}
	for _, s := range subs {
		if err := db.Create(s).Error; err != nil {
			return nil, fmt.Errorf("failed to seed substation %s: %w", s.Name, err)
		}
	}
	f.DalaSub, f.KumboSub, f.DutseSub = *subs[0], *subs[1], *subs[2]

	bands := []*models.Band{{Name: "Band A"}, {Name: "Band B"}}
	for _, b := range bands {
		if err := db.Create(b).Error; err != nil {
			return nil, fmt.Errorf("failed to seed band %s: %w", b.Name, err)
		}
	}
	f.BandA, f.BandB = *bands[0], *bands[1]

	feeders := []*models.Feeder{
		{Name: "Dala F1", Slug: utils.Slugify("Dala F1"), SubstationID: f.DalaSub.ID, BusinessDistrictID: f.Dala.ID, VoltageLevel: models.VoltageLevel11KV, BandID: &f.BandA.ID},
		{Name: "Dala F2", Slug: utils.Slugify("Dala F2"), SubstationID: f.DalaSub.ID, BusinessDistrictID: f.Dala.ID, VoltageLevel: models.VoltageLevel11KV, BandID: &f.BandB.ID},
		{Name: "Kumbotso F1", Slug: utils.Slugify("Kumbotso F1"), SubstationID: f.KumboSub.ID, BusinessDistrictID: f.Kumbo.ID, VoltageLevel: models.VoltageLevel33KV, BandID: &f.BandA.ID},
		{Name: "Dutse F1", Slug: utils.Slugify("Dutse F1"), SubstationID: f.DutseSub.ID, BusinessDistrictID: f.Dutse.ID, VoltageLevel: models.VoltageLevel11KV, BandID: &f.BandA.ID},
	}
	for _, fd := range feeders {
		if err := db.Create(fd).Error; err != nil {
			return nil, fmt.Errorf("failed to seed feeder %s: %w", fd.Name, err)
		}
	}
	f.DalaF1, f.DalaF2, f.KumboF1, f.DutseF1 = *feeders[0], *feeders[1], *feeders[2], *feeders[3]

	transformers := []*models.DistributionTransformer{
		{Name: "Dala F1 T1", Slug: utils.Slugify("Dala F1 T1"), FeederID: f.DalaF1.ID},
		{Name: "Dala F1 T2", Slug: utils.Slugify("Dala F1 T2"), FeederID: f.DalaF1.ID},
		{Name: "Dutse F1 T1", Slug: utils.Slugify("Dutse F1 T1"), FeederID: f.DutseF1.ID},
	}
	for _, t := range transformers {
		if err := db.Create(t).Error; err != nil {
			return nil, fmt.Errorf("failed to seed transformer %s: %w", t.Name, err)
		}
	}
	f.DalaF1T1, f.DalaF1T2, f.DutseF1T = *transformers[0], *transformers[1], *transformers[2]

	return f, nil
}

// Date builds a UTC date-only time
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthStart builds the first day of a month in UTC
func MonthStart(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

// InsertDailyEnergy records delivered energy for one feeder-day
func InsertDailyEnergy(db *gorm.DB, feederID uint, date time.Time, mwh float64) error {
	return db.Create(&models.DailyEnergyDelivered{
		FeederID:  feederID,
		Date:      date,
		EnergyMWh: decimal.NewFromFloat(mwh),
	}).Error
}

// InsertMonthlyEnergyBilled records billed energy for one feeder-month
func InsertMonthlyEnergyBilled(db *gorm.DB, feederID uint, month time.Time, mwh float64) error {
	return db.Create(&models.MonthlyEnergyBilled{
		FeederID:  feederID,
		Month:     month,
		EnergyMWh: decimal.NewFromFloat(mwh),
	}).Error
}

// InsertMonthlyRevenueBilled records billed revenue for one feeder-month
func InsertMonthlyRevenueBilled(db *gorm.DB, feederID uint, month time.Time, amount float64) error {
	return db.Create(&models.MonthlyRevenueBilled{
		FeederID: feederID,
		Month:    month,
		Amount:   decimal.NewFromFloat(amount),
	}).Error
}

// InsertDailyRevenue records collected revenue for one feeder-day
func InsertDailyRevenue(db *gorm.DB, feederID uint, date time.Time, amount float64) error {
	return db.Create(&models.DailyRevenueCollected{
		FeederID: feederID,
		Date:     date,
		Amount:   decimal.NewFromFloat(amount),
	}).Error
}

// InsertCustomerStats records the per-feeder customer counters for one month
func InsertCustomerStats(db *gorm.DB, feederID uint, month time.Time, count, billed, responded int64) error {
	return db.Create(&models.MonthlyCustomerStats{
		FeederID:              feederID,
		Month:                 month,
		CustomerCount:         count,
		CustomersBilled:       billed,
		CustomerResponseCount: responded,
	}).Error
}

// InsertCommercialSummary records one rep's commercial counters for one month
func InsertCommercialSummary(db *gorm.DB, repID uint, month time.Time, billed, responded int64, revBilled, revCollected float64) error {
	return db.Create(&models.MonthlyCommercialSummary{
		SalesRepID:         repID,
		Month:              month,
		CustomersBilled:    billed,
		CustomersResponded: responded,
		RevenueBilled:      decimal.NewFromFloat(revBilled),
		RevenueCollected:   decimal.NewFromFloat(revCollected),
	}).Error
}

// InsertHoursOfSupply records the energized hours for one feeder-day
func InsertHoursOfSupply(db *gorm.DB, feederID uint, date time.Time, hours float64) error {
	return db.Create(&models.DailyHoursOfSupply{
		FeederID:      feederID,
		Date:          date,
		HoursSupplied: decimal.NewFromFloat(hours),
	}).Error
}

// InsertInterruption records one outage; restoredAt may be nil for open faults
func InsertInterruption(db *gorm.DB, feederID uint, typ models.InterruptionType, occurredAt time.Time, restoredAt *time.Time) error {
	return db.Create(&models.FeederInterruption{
		FeederID:   feederID,
		Type:       typ,
		OccurredAt: occurredAt,
		RestoredAt: restoredAt,
	}).Error
}

// InsertHourlyLoad records the load on one feeder at one hour
func InsertHourlyLoad(db *gorm.DB, feederID uint, date time.Time, hour int, loadMW float64) error {
	return db.Create(&models.HourlyLoad{
		FeederID: feederID,
		Date:     date,
		Hour:     hour,
		LoadMW:   decimal.NewFromFloat(loadMW),
	}).Error
}

// InsertExpense records one ledger line for a district
func InsertExpense(db *gorm.DB, districtID uint, date time.Time, categoryID *uint, debit, credit float64) error {
	return db.Create(&models.Expense{
		DistrictID:     districtID,
		Date:           date,
		OpexCategoryID: categoryID,
		Debit:          decimal.NewFromFloat(debit),
		Credit:         decimal.NewFromFloat(credit),
	}).Error
}

// InsertDailyCollection records one collection line; the owner pointers may be nil
func InsertDailyCollection(db *gorm.DB, feederID, repID, transformerID *uint, date time.Time, amount float64, typ models.CollectionType) error {
	return db.Create(&models.DailyCollection{
		FeederID:      feederID,
		SalesRepID:    repID,
		TransformerID: transformerID,
		Date:          date,
		Amount:        decimal.NewFromFloat(amount),
		Type:          typ,
	}).Error
}

// InsertRepPerformance records one monthly performance snapshot
func InsertRepPerformance(db *gorm.DB, repID uint, month time.Time, outstanding, current, collections float64) error {
	return db.Create(&models.SalesRepPerformance{
		SalesRepID:        repID,
		Month:             month,
		OutstandingBilled: decimal.NewFromFloat(outstanding),
		CurrentBilled:     decimal.NewFromFloat(current),
		Collections:       decimal.NewFromFloat(collections),
	}).Error
}

// InsertSalesRep creates a representative with a unique slug
func InsertSalesRep(db *gorm.DB, name, slug string) (*models.SalesRepresentative, error) {
	rep := &models.SalesRepresentative{Name: name, Slug: slug}
	if err := db.Create(rep).Error; err != nil {
		return nil, err
	}
	return rep, nil
}
