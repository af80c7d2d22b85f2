package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

type Kind string

const (
	KindSuggestRecipe Kind = "suggest_recipe"
	KindRecipeIdeas   Kind = "recipe_ideas"
	KindQuestion      Kind = "question"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(s)); k {
	case KindSuggestRecipe, KindRecipeIdeas, KindQuestion:
		return k, nil
	default:
		return "", fmt.Errorf("unknown prompt kind %q", s)
	}
}

// PantryItems — непросроченные продукты пользователя в виде "Milk (expires 2026-10-20)".
func PantryItems(l pantry.Ledger, username string, ref time.Time) []string {
	rows := analytics.Unexpired(l.ForUser(username), ref)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, fmt.Sprintf("%s (expires %s)", r.FoodName, r.ExpiryDate))
	}
	return out
}

func BuildPrompt(displayName string, items []string, kind Kind, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a pantry assistant helping %s. ", displayName)
	fmt.Fprintf(&b, "The user has these unexpired items: %s.\n", strings.Join(items, ", "))
	switch kind {
	case KindRecipeIdeas:
		b.WriteString("Give me recipe ideas that I can prepare based on these items.")
	case KindQuestion:
		fmt.Fprintf(&b, "User question: %s\n", question)
		b.WriteString("Respond in a helpful, friendly way.")
	default:
		b.WriteString("Can you suggest a recipe with items that are about to expire or unexpired?")
	}
	return b.String()
}
