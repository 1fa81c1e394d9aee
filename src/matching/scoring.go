package matching

import (
	"cmp"
	"math"
	"math/bits"

	"golang.org/x/exp/slices"
)

type ResourceType string

const (
	ResourceTypeCPU     ResourceType = "CPU"
	ResourceTypeGPU     ResourceType = "GPU"
	ResourceTypeTPU     ResourceType = "TPU"
	ResourceTypeQuantum ResourceType = "QUANTUM"
	ResourceTypeCluster ResourceType = "CLUSTER"
)

// Matches scoring at or below it are never proposed
const MinMatchScore = 50

// Compute offered by a provider, as listed in the resource registry
type Resource struct {
	Id       string       `json:"id"`
	Provider string       `json:"provider"`
	Type     ResourceType `json:"type"`

	Cores  uint32  `json:"cores"`
	Memory uint32  `json:"memory_gb"`
	Speed  float64 `json:"speed_ghz"`

	PricePerHour uint64 `json:"price_per_hour"`

	// Unix seconds, zero means unbounded
	AvailableFrom  int64 `json:"available_from"`
	AvailableUntil int64 `json:"available_until"`

	Region  string `json:"region"`
	Country string `json:"country"`

	// 0-100
	Reliability uint8 `json:"reliability"`
}

// Compute requested by a consumer, as listed in the demand registry
type Demand struct {
	Id       string `json:"id"`
	Consumer string `json:"consumer"`

	MinCores      uint32       `json:"min_cores"`
	MinMemory     uint32       `json:"min_memory_gb"`
	MinSpeed      float64      `json:"min_speed_ghz"`
	PreferredType ResourceType `json:"preferred_type,omitempty"`

	// Hours
	MaxDuration uint32 `json:"max_duration"`

	// Unix seconds, zero means as soon as possible
	PreferredStartTime int64 `json:"preferred_start_time,omitempty"`

	MaxTotalBudget uint64 `json:"max_total_budget"`
	MaxHourlyRate  uint64 `json:"max_hourly_rate,omitempty"`

	PreferredRegion string `json:"preferred_region,omitempty"`
}

// Weighted sum of performance (25), budget (25), time (20), location (15), type (10) and reliability (5)
func Score(demand *Demand, resource *Resource, now int64) uint8 {
	score := performanceScore(demand, resource) +
		budgetScore(demand, resource) +
		timeScore(demand, resource, now) +
		locationScore(demand, resource) +
		typeScore(demand, resource) +
		float64(min(resource.Reliability, 100))*0.05

	return uint8(math.Min(100, math.Floor(score)))
}

// Builds the match terms for the pair. Fails with ErrMatchScoreTooLow when the pair isn't worth proposing
func Propose(demand *Demand, resource *Resource, now int64) (out *Proposal, err error) {
	if demand.MaxDuration == 0 {
		return nil, ErrInvalidTimeRange
	}

	score := Score(demand, resource, now)
	if score <= MinMatchScore {
		return nil, ErrMatchScoreTooLow
	}

	total, ok := estimatedCost(demand, resource)
	if !ok || total == 0 {
		return nil, ErrInvalidPrice
	}

	start, end := timeWindow(demand, now)
	return &Proposal{
		DemandId:     demand.Id,
		ResourceId:   resource.Id,
		Consumer:     demand.Consumer,
		Provider:     resource.Provider,
		StartTime:    start,
		EndTime:      end,
		PricePerHour: resource.PricePerHour,
		TotalPrice:   total,
		MatchScore:   score,
		EscrowAmount: total,
	}, nil
}

// Proposals for every resource worth matching with the demand, best first
func Rank(demand *Demand, resources []*Resource, now int64) (out []*Proposal) {
	for _, resource := range resources {
		proposal, err := Propose(demand, resource, now)
		if err != nil {
			continue
		}
		out = append(out, proposal)
	}

	slices.SortStableFunc(out, func(a, b *Proposal) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})
	return
}

// Up to 5 for meeting the minimum, up to 5 more for exceeding it
func dimensionScore(have, need float64) float64 {
	if have < need {
		return 0
	}
	if need <= 0 {
		return 10
	}
	return 5 + math.Min(5, (have-need)/need*5)
}

func performanceScore(demand *Demand, resource *Resource) float64 {
	score := dimensionScore(float64(resource.Cores), float64(demand.MinCores)) +
		dimensionScore(float64(resource.Memory), float64(demand.MinMemory)) +
		dimensionScore(resource.Speed, demand.MinSpeed)
	return math.Min(25, score)
}

func budgetScore(demand *Demand, resource *Resource) float64 {
	if demand.MaxHourlyRate > 0 && resource.PricePerHour > demand.MaxHourlyRate {
		return 0
	}

	cost, ok := estimatedCost(demand, resource)
	if !ok || demand.MaxTotalBudget == 0 || cost > demand.MaxTotalBudget {
		return 0
	}

	return 25 * (1 - float64(cost)/float64(demand.MaxTotalBudget))
}

func timeScore(demand *Demand, resource *Resource, now int64) float64 {
	if resource.AvailableFrom == 0 && resource.AvailableUntil == 0 {
		return 15
	}

	start, end := timeWindow(demand, now)
	if start >= resource.AvailableFrom && (resource.AvailableUntil == 0 || end <= resource.AvailableUntil) {
		return 20
	}
	return 0
}

func locationScore(demand *Demand, resource *Resource) float64 {
	switch demand.PreferredRegion {
	case "", resource.Region:
		return 15
	case resource.Country:
		return 10
	default:
		return 5
	}
}

func typeScore(demand *Demand, resource *Resource) float64 {
	if demand.PreferredType == "" || demand.PreferredType == resource.Type {
		return 10
	}
	return 0
}

// Price of renting the resource for the whole duration, false on overflow
func estimatedCost(demand *Demand, resource *Resource) (uint64, bool) {
	hi, lo := bits.Mul64(resource.PricePerHour, uint64(demand.MaxDuration))
	return lo, hi == 0
}

func timeWindow(demand *Demand, now int64) (start, end int64) {
	start = demand.PreferredStartTime
	if start == 0 {
		start = now
	}
	return start, start + int64(demand.MaxDuration)*3600
}
