package analytics

import (
	"time"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// Dashboard — всё, что показывает экран устойчивости, одним пересчётом.
type Dashboard struct {
	Summary      Summary     `json:"summary"`
	LastShopping string      `json:"last_shopping"`
	Tier         Tier        `json:"tier"`
	TopWasted    []ItemTotal `json:"top_wasted"`
	TopUsed      []ItemTotal `json:"top_used"`
	ExpiryByType []TypeCount `json:"expiry_by_type"`
	CO2Impact    []Impact    `json:"co2_impact"`
}

// BuildDashboard: Summary отдаётся округлённой, тир считается по точным значениям.
func BuildDashboard(l pantry.Ledger, username string, ref time.Time, factor float64) Dashboard {
	s := Aggregate(l, username, ref, factor)
	return Dashboard{
		Summary:      s.Rounded(),
		LastShopping: s.LastShopping(),
		Tier:         TierFor(s.CO2SavedKg, s.MoneySaved),
		TopWasted:    TopItems(l, username, ModeWaste, ref),
		TopUsed:      TopItems(l, username, ModeUsed, ref),
		ExpiryByType: ExpiryBreakdownByType(l, username, ref),
		CO2Impact:    CO2Impact(l, username, factor),
	}
}
