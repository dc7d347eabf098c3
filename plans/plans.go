// Package plans holds the fixed pricing catalog. The catalog is static:
// plans are never created or mutated at runtime.
package plans

import "github.com/gosom/saas-funnel-demo/session"

var catalog = []session.Plan{
	{
		ID:       "starter",
		Name:     "Starter",
		Price:    29,
		Interval: "month",
		Features: []string{
			"Up to 10,000 events/month",
			"Basic analytics",
			"Email support",
			"1 project",
		},
	},
	{
		ID:       "pro",
		Name:     "Pro",
		Price:    99,
		Interval: "month",
		Features: []string{
			"Up to 100,000 events/month",
			"Advanced analytics",
			"Priority support",
			"Unlimited projects",
			"Custom dashboards",
			"Export data",
		},
		Popular: true,
	},
	{
		ID:       "enterprise",
		Name:     "Enterprise",
		Price:    299,
		Interval: "month",
		Features: []string{
			"Unlimited events",
			"Advanced analytics",
			"24/7 support",
			"Unlimited projects",
			"Custom dashboards",
			"Export data",
			"API access",
			"Custom integrations",
		},
	},
}

// All returns the catalog. Callers get a copy so the catalog stays immutable.
func All() []session.Plan {
	ans := make([]session.Plan, len(catalog))
	copy(ans, catalog)

	return ans
}

// Find returns the plan with the given id.
func Find(id string) (session.Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}

	return session.Plan{}, false
}
