package catalog

// PredicateKind names a threshold check understood by Predicate.Eval.
type PredicateKind string

const (
	TotalCookiesAtLeast    PredicateKind = "totalCookiesAtLeast"
	LifetimeCookiesAtLeast PredicateKind = "lifetimeCookiesAtLeast"
	BuildingCountAtLeast   PredicateKind = "buildingCountAtLeast"
	ManualClicksAtLeast    PredicateKind = "manualClicksAtLeast"
)

// Predicate is a declarative unlock rule. It carries no code so catalogs stay
// serializable and can be checked in isolation.
type Predicate struct {
	Kind       PredicateKind `json:"kind"`
	BuildingID BuildingID    `json:"buildingId,omitempty"`
	Value      float64       `json:"value"`
}

// Facts is the read-only view of game state that predicates are evaluated against.
type Facts struct {
	TotalCookies    float64
	LifetimeCookies float64
	ManualClicks    int64
	Buildings       map[BuildingID]int
}

// Eval interprets the predicate. Unknown kinds never hold.
func (p Predicate) Eval(f Facts) bool {
	switch p.Kind {
	case TotalCookiesAtLeast:
		return f.TotalCookies >= p.Value
	case LifetimeCookiesAtLeast:
		return f.LifetimeCookies >= p.Value
	case BuildingCountAtLeast:
		return float64(f.Buildings[p.BuildingID]) >= p.Value
	case ManualClicksAtLeast:
		return float64(f.ManualClicks) >= p.Value
	default:
		return false
	}
}

func totalCookiesAtLeast(v float64) Predicate {
	return Predicate{Kind: TotalCookiesAtLeast, Value: v}
}

func lifetimeCookiesAtLeast(v float64) Predicate {
	return Predicate{Kind: LifetimeCookiesAtLeast, Value: v}
}

func buildingCountAtLeast(id BuildingID, n int) Predicate {
	return Predicate{Kind: BuildingCountAtLeast, BuildingID: id, Value: float64(n)}
}

func manualClicksAtLeast(n int64) Predicate {
	return Predicate{Kind: ManualClicksAtLeast, Value: float64(n)}
}
