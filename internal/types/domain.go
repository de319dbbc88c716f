package types

// Domain is one of the four life areas the outlook scores.
type Domain string

const (
	DomainFinancial    Domain = "financial"
	DomainWellness     Domain = "wellness"
	DomainRelationship Domain = "relationship"
	DomainCareer       Domain = "career"
)

// AllDomains lists every domain in insight tie-break priority order:
// financial > career > relationship > wellness.
var AllDomains = []Domain{
	DomainFinancial,
	DomainCareer,
	DomainRelationship,
	DomainWellness,
}

// Weights holds the per-user fractional importance of each domain. The four
// values are non-negative and sum to 1.0.
type Weights struct {
	Financial    float64 `json:"financial"`
	Wellness     float64 `json:"wellness"`
	Relationship float64 `json:"relationship"`
	Career       float64 `json:"career"`
}

func (w Weights) Get(d Domain) float64 {
	switch d {
	case DomainFinancial:
		return w.Financial
	case DomainWellness:
		return w.Wellness
	case DomainRelationship:
		return w.Relationship
	case DomainCareer:
		return w.Career
	}
	return 0
}

func (w *Weights) Set(d Domain, v float64) {
	switch d {
	case DomainFinancial:
		w.Financial = v
	case DomainWellness:
		w.Wellness = v
	case DomainRelationship:
		w.Relationship = v
	case DomainCareer:
		w.Career = v
	}
}

func (w Weights) Sum() float64 {
	return w.Financial + w.Wellness + w.Relationship + w.Career
}

// Top returns the highest-weighted domain, ties broken by AllDomains order.
func (w Weights) Top() Domain {
	best := AllDomains[0]
	for _, d := range AllDomains[1:] {
		if w.Get(d) > w.Get(best) {
			best = d
		}
	}
	return best
}

// TopTwo returns the two highest-weighted domains in descending order, ties
// broken by AllDomains order.
func (w Weights) TopTwo() [2]Domain {
	first := w.Top()
	var second Domain
	for _, d := range AllDomains {
		if d == first {
			continue
		}
		if second == "" || w.Get(d) > w.Get(second) {
			second = d
		}
	}
	return [2]Domain{first, second}
}
