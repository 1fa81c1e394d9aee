package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func demand() *Demand {
	return &Demand{
		Id:             "demand-1",
		Consumer:       "C",
		MinCores:       8,
		MinMemory:      32,
		MinSpeed:       2.0,
		MaxDuration:    10,
		MaxTotalBudget: 1_000,
	}
}

// Meets every minimum exactly, spends half the budget
func resource() *Resource {
	return &Resource{
		Id:           "resource-1",
		Provider:     "P",
		Type:         ResourceTypeCPU,
		Cores:        8,
		Memory:       32,
		Speed:        2.0,
		PricePerHour: 50,
		Region:       "eu-west",
		Country:      "DE",
		Reliability:  100,
	}
}

func TestScore(t *testing.T) {
	for name, tc := range map[string]struct {
		demand   func(d *Demand)
		resource func(r *Resource)
		score    uint8
	}{
		"minimums met":         {nil, nil, 72},
		"hourly rate exceeded": {func(d *Demand) { d.MaxHourlyRate = 40 }, nil, 60},
		"over budget":          {func(d *Demand) { d.MaxTotalBudget = 499 }, nil, 60},
		"same region":          {func(d *Demand) { d.PreferredRegion = "eu-west" }, nil, 72},
		"same country":         {func(d *Demand) { d.PreferredRegion = "DE" }, nil, 67},
		"elsewhere":            {func(d *Demand) { d.PreferredRegion = "us-east" }, nil, 62},
		"type mismatch":        {func(d *Demand) { d.PreferredType = ResourceTypeGPU }, nil, 62},
		"not available yet":    {nil, func(r *Resource) { r.AvailableFrom = 2_000 }, 57},
		"window fits availability": {
			func(d *Demand) { d.PreferredStartTime = 2_000 },
			func(r *Resource) { r.AvailableFrom = 2_000; r.AvailableUntil = 38_000 },
			77,
		},
		"window outlasts availability": {
			func(d *Demand) { d.PreferredStartTime = 2_000 },
			func(r *Resource) { r.AvailableFrom = 2_000; r.AvailableUntil = 37_999 },
			57,
		},
		"bonus capped": {
			nil,
			func(r *Resource) { r.Cores = 64; r.Memory = 256; r.Speed = 8; r.PricePerHour = 10; r.AvailableFrom = 1 },
			97,
		},
		"nothing met": {
			nil,
			func(r *Resource) { r.Cores = 4; r.Memory = 16; r.Speed = 1; r.PricePerHour = 200; r.Reliability = 0 },
			40,
		},
		"no minimums": {
			func(d *Demand) { d.MinCores = 0; d.MinMemory = 0; d.MinSpeed = 0 },
			nil,
			82,
		},
	} {
		d, r := demand(), resource()
		if tc.demand != nil {
			tc.demand(d)
		}
		if tc.resource != nil {
			tc.resource(r)
		}
		require.Equal(t, tc.score, Score(d, r, 1_000), name)
	}
}

func TestPropose(t *testing.T) {
	proposal, err := Propose(demand(), resource(), 1_000)
	require.NoError(t, err)
	require.Equal(t, &Proposal{
		DemandId:     "demand-1",
		ResourceId:   "resource-1",
		Consumer:     "C",
		Provider:     "P",
		StartTime:    1_000,
		EndTime:      37_000,
		PricePerHour: 50,
		TotalPrice:   500,
		MatchScore:   72,
		EscrowAmount: 500,
	}, proposal)
	require.NoError(t, proposal.Validate())
}

func TestProposeRejects(t *testing.T) {
	// 5 for cores, nothing for budget, full marks for the rest
	r := resource()
	r.Memory = 16
	r.Speed = 1
	r.PricePerHour = 200
	require.Equal(t, uint8(MinMatchScore), Score(demand(), r, 1_000))
	_, err := Propose(demand(), r, 1_000)
	require.ErrorIs(t, err, ErrMatchScoreTooLow)

	r = resource()
	r.PricePerHour = math.MaxUint64
	_, err = Propose(demand(), r, 1_000)
	require.ErrorIs(t, err, ErrInvalidPrice)

	r = resource()
	r.PricePerHour = 0
	_, err = Propose(demand(), r, 1_000)
	require.ErrorIs(t, err, ErrInvalidPrice)

	d := demand()
	d.MaxDuration = 0
	_, err = Propose(d, resource(), 1_000)
	require.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestRank(t *testing.T) {
	good := resource()
	best := resource()
	best.Id = "resource-best"
	best.Cores, best.Memory, best.Speed, best.PricePerHour = 64, 256, 8, 10
	poor := resource()
	poor.Id = "resource-poor"
	poor.Cores, poor.Memory, poor.Speed, poor.PricePerHour = 4, 16, 1, 200

	ranked := Rank(demand(), []*Resource{poor, good, best}, 1_000)
	require.Len(t, ranked, 2)
	require.Equal(t, "resource-best", ranked[0].ResourceId)
	require.Equal(t, uint8(92), ranked[0].MatchScore)
	require.Equal(t, "resource-1", ranked[1].ResourceId)

	require.Empty(t, Rank(demand(), []*Resource{poor}, 1_000))
}
