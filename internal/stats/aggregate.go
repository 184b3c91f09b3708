package stats

import (
	"gymhub/internal/gym"
	"gymhub/internal/membership"
)

// Aggregate computes owner statistics from the owner's gyms and their active
// memberships. Memberships of gyms not in gyms are ignored. A tier missing
// from a gym's price table adds a member but no revenue.
func Aggregate(gyms []gym.Gym, active []membership.Membership) *OwnerStats {
	out := &OwnerStats{
		TotalGyms:           len(gyms),
		MembershipBreakdown: make(map[membership.Tier]int, len(membership.Tiers)),
		MonthlyMemberships:  map[string][]MembershipSummary{},
		PerGym:              make([]GymStats, len(gyms)),
	}
	for _, t := range membership.Tiers {
		out.MembershipBreakdown[t] = 0
	}

	index := make(map[int]int, len(gyms))
	for i, g := range gyms {
		index[g.ID] = i
		out.PerGym[i] = GymStats{GymID: g.ID, Name: g.Name}
	}

	for _, m := range active {
		i, ok := index[m.GymID]
		if !ok || m.Status != membership.StatusActive {
			continue
		}

		tier := membership.NormalizeTier(string(m.Tier))
		gs := &out.PerGym[i]
		gs.Members++
		gs.Revenue += gyms[i].Prices.PriceFor(string(tier))

		if tier.Valid() {
			out.MembershipBreakdown[tier]++
		}

		label := m.StartDate.Format(MonthLabel)
		out.MonthlyMemberships[label] = append(out.MonthlyMemberships[label], MembershipSummary{
			MembershipID: m.ID,
			GymID:        m.GymID,
			Tier:         tier,
			StartDate:    m.StartDate,
		})
	}

	for _, gs := range out.PerGym {
		out.TotalMembers += gs.Members
		out.TotalRevenue += gs.Revenue
	}

	return out
}
