package pricing

import (
	"github.com/rs/zerolog/log"

	"lenderlink-backend/internal/models"
)

// ResolveTier selects the pricing row whose LTV band and DSCR band both
// contain the scenario's values. Bands are authored non-overlapping within a
// program, so at most one row matches; nil means the program matched without
// a priced tier. Rows with malformed bands are skipped.
func ResolveTier(rows []models.PricingMatrixRow, ltv, dscr float64) *models.PricingMatrixRow {
	for i := range rows {
		row := &rows[i]

		ltvBand, err := ParseBand(row.LTVBand)
		if err != nil {
			log.Warn().Str("row_id", row.RowID.String()).Str("ltv_band", row.LTVBand).Msg("Skipping pricing row with malformed LTV band")
			continue
		}
		dscrBand, err := ParseBand(row.DSCRBand)
		if err != nil {
			log.Warn().Str("row_id", row.RowID.String()).Str("dscr_band", row.DSCRBand).Msg("Skipping pricing row with malformed DSCR band")
			continue
		}

		if ltvBand.Contains(ltv) && dscrBand.Contains(dscr) {
			return row
		}
	}
	return nil
}
