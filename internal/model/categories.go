package model

import (
	"sort"
	"strings"
)

// categoryLabels maps category label values to display headings.
var categoryLabels = map[string]string{
	"media":          "Media",
	"downloads":      "Downloads",
	"infrastructure": "Infrastructure",
	"network":        "Network",
	"monitoring":     "Monitoring",
	"tools":          "Tools",
	"productivity":   "Productivity",
	"dev":            "Development",
	"home":           "Home Automation",
	"security":       "Security",
	"communication":  "Communication",
	"gaming":         "Gaming",
	DefaultCategory:  "Other",
}

// CategoryLabel returns the heading used when grouping services by category.
func CategoryLabel(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if label, ok := categoryLabels[key]; ok {
		return label
	}
	if key == "" {
		return categoryLabels[DefaultCategory]
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// GroupByCategory buckets descriptors by category. Categories are sorted
// alphabetically with "other" last; services keep their input order.
func GroupByCategory(services []*ServiceDescriptor) ([]string, map[string][]*ServiceDescriptor) {
	groups := make(map[string][]*ServiceDescriptor)
	for _, svc := range services {
		cat := strings.ToLower(strings.TrimSpace(svc.Category))
		if cat == "" {
			cat = DefaultCategory
		}
		groups[cat] = append(groups[cat], svc)
	}

	order := make([]string, 0, len(groups))
	for cat := range groups {
		order = append(order, cat)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i] == DefaultCategory {
			return false
		}
		if order[j] == DefaultCategory {
			return true
		}
		return order[i] < order[j]
	})
	return order, groups
}
