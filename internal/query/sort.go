package query

// SortPlan describes how a result set should be ordered. Derived plans
// require the store to materialize the computed field first, sort on it, and
// strip it before returning rows; stored plans sort on the field directly.
type SortPlan struct {
	Field      string
	Derived    bool
	Descending bool
}

var storedSortFields = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"width":     "width",
	"price":     "price",
	"length":    "length",
}

// ResolveSort maps a requested sort key and order to a plan. Unrecognized
// keys fall back to createdAt descending; any order other than "asc" sorts
// descending.
func ResolveSort(sortBy, sortOrder string) SortPlan {
	plan := SortPlan{Descending: sortOrder != "asc"}

	if field, ok := storedSortFields[sortBy]; ok {
		plan.Field = field
		return plan
	}

	if sortBy == "remainingLength" {
		plan.Field = string(DerivedRemainingMeters)
		plan.Derived = true
		return plan
	}

	return SortPlan{Field: "createdAt", Descending: true}
}
