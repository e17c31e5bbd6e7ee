package ai

import (
	"sort"
	"strings"
)

// The six supported assistant contexts and their fixed system prompts.
var systemPrompts = map[string]string{
	"recommendation": "You are an AI grocery shopping assistant. Based on the customer's cart and purchase history, suggest complementary products. Keep suggestions practical, seasonal, and health-conscious.",
	"substitution":   "You are a grocery substitution expert. When items are out of stock, suggest the best alternatives considering quality, price, and dietary needs.",
	"inventory":      "You are a predictive inventory analyst for a grocery store. Analyze stock levels and predict which items might run out. Suggest reorder quantities.",
	"pricing":        "You are a dynamic pricing analyst for a grocery store. Based on inventory levels, expiry dates, and market conditions, suggest optimal sale prices.",
	"description":    "You are a food writer. Write warm, appetizing product descriptions for grocery items. Highlight origin, quality, and best uses. Keep it under 100 words.",
	"delivery_slot":  "You are a delivery logistics optimizer. Based on order volume, location, and time of day, recommend the optimal delivery window.",
}

// ValidContexts lists the recognized context names, sorted for stable
// error messages.
func ValidContexts() []string {
	out := make([]string, 0, len(systemPrompts))
	for k := range systemPrompts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func validContextList() string {
	return strings.Join(ValidContexts(), ", ")
}
