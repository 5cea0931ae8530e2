// Package businessflow contains the business logic for the analytics service.
package businessflow

import (
	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/utils"
)

// ATCC formula identifiers echoed in responses so callers know which form a
// given endpoint applies.
const (
	FormulaATCCComplementary  = "atcc = 100 - (billing_efficiency * collection_efficiency / 100)"
	FormulaATCCMultiplicative = "atcc = billing_efficiency * collection_efficiency / 100"
)

// ToPeriodInfo echoes a resolved period back to the caller
func ToPeriodInfo(p Period) dto.PeriodInfo {
	return dto.PeriodInfo{
		Start:         p.Current.Start.Format(utils.DateLayout),
		End:           p.Current.End.Format(utils.DateLayout),
		PreviousStart: p.Previous.Start.Format(utils.DateLayout),
		PreviousEnd:   p.Previous.End.Format(utils.DateLayout),
	}
}
