package domain

// AllCategories is the selector sentinel that matches every category.
const AllCategories = "All"

// Category is a classification bucket. Escalate marks buckets that must go to engineering.
type Category struct {
	Label    string
	Escalate bool
}

var (
	CategoryAccess       = Category{Label: "Access & Authentication"}
	CategoryBilling      = Category{Label: "Billing & Payment"}
	CategoryPerformance  = Category{Label: "Performance & Latency", Escalate: true}
	CategoryIntegrations = Category{Label: "Integrations & API", Escalate: true}
	CategoryBugs         = Category{Label: "Bugs & Errors", Escalate: true}
	CategoryFeature      = Category{Label: "Feature Request"}
	CategorySupport      = Category{Label: "Support & Usage"}
)

var catalogue = []Category{
	CategoryAccess,
	CategoryBilling,
	CategoryPerformance,
	CategoryIntegrations,
	CategoryBugs,
	CategoryFeature,
	CategorySupport,
}

var escalationSet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range catalogue {
		if c.Escalate {
			set[c.Label] = struct{}{}
		}
	}
	return set
}()

// Categories returns the catalogue in rule order, fallback last.
func Categories() []Category {
	out := make([]Category, len(catalogue))
	copy(out, catalogue)
	return out
}

// CategoryByLabel looks up a catalogue entry.
func CategoryByLabel(label string) (Category, bool) {
	for _, c := range catalogue {
		if c.Label == label {
			return c, true
		}
	}
	return Category{}, false
}

// RequiresEscalation reports whether tickets of the given category go to engineering.
func RequiresEscalation(label string) bool {
	_, ok := escalationSet[label]
	return ok
}

// EscalationSet returns the escalated labels in catalogue order.
func EscalationSet() []string {
	labels := make([]string, 0, len(escalationSet))
	for _, c := range catalogue {
		if c.Escalate {
			labels = append(labels, c.Label)
		}
	}
	return labels
}
