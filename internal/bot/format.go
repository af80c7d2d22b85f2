package bot

import (
	"fmt"
	"strings"

	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

func formatExpiring(rows []pantry.Row, days int) string {
	if len(rows) == 0 {
		return "🎉 No items expiring soon!"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏳ Expiring within %d days:\n", days)
	for _, r := range rows {
		fmt.Fprintf(&sb, "• %s", r.FoodName)
		if r.Brand != "" {
			fmt.Fprintf(&sb, " (%s)", r.Brand)
		}
		fmt.Fprintf(&sb, " — %s %s, expires %s\n", fmtQty(r.Quantity), r.QUnit, r.ExpiryDate)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatGrocery(recs []analytics.Recommendation, days int) string {
	if len(recs) == 0 {
		return "Nothing to restock based on the last 30 days."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 Suggested for the next %d days:\n", days)
	for i, r := range recs {
		fmt.Fprintf(&sb, "%d. %s", i+1, r.FoodName)
		if r.Brand != "" {
			fmt.Fprintf(&sb, " (%s)", r.Brand)
		}
		fmt.Fprintf(&sb, " — %d %s\n", r.Quantity, r.Unit)
	}
	sb.WriteString("\nBuy some with /buy 1 3, or all with the button.")
	return sb.String()
}

func formatTop(title string, items []analytics.ItemTotal) string {
	if len(items) == 0 {
		return title + ": none"
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%s)", it.FoodName, fmtQty(it.Quantity)))
	}
	return title + ": " + strings.Join(parts, ", ")
}

func formatDashboard(displayName string, d analytics.Dashboard) string {
	s := d.Summary
	last := d.LastShopping
	if last == "" {
		last = "—"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🌱 Sustainability dashboard: %s\n\n", displayName)
	fmt.Fprintf(&sb, "🗃️ Unique products: %d\n", s.UniqueProducts)
	fmt.Fprintf(&sb, "📅 Last shopping: %s\n", last)
	fmt.Fprintf(&sb, "❌ Expired items: %d\n", s.ExpiredCount)
	fmt.Fprintf(&sb, "⏳ Expiring in %d days: %d\n", analytics.SoonDays, s.ExpiringSoonCount)
	fmt.Fprintf(&sb, "💨 CO₂ emitted: %.2f kg\n", s.CO2EmittedKg)
	fmt.Fprintf(&sb, "🌿 CO₂ saved: %.2f kg\n", s.CO2SavedKg)
	fmt.Fprintf(&sb, "💸 Money lost: $%.2f\n", s.MoneyWasted)
	fmt.Fprintf(&sb, "💰 Money saved: $%.2f\n\n", s.MoneySaved)
	fmt.Fprintf(&sb, "%s\n\n", d.Tier)
	sb.WriteString(formatTop("🗑️ Most wasted", d.TopWasted))
	sb.WriteString("\n")
	sb.WriteString(formatTop("✅ Most used", d.TopUsed))
	return sb.String()
}
