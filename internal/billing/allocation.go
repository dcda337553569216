// Package billing contains the pure utility-cost allocation engine. It has no
// persistence or transport dependencies so its arithmetic can be verified in
// isolation.
package billing

import "math"

// TenantUsage pairs a tenant with their recorded consumption for one utility
// in one period. A nil Usage means the tenant has no reading; a zero value is
// a real recorded reading and is treated differently. Negative values are
// treated as no reading.
type TenantUsage struct {
	TenantID int64
	Usage    *float64
}

// Allocate splits total across tenants and returns one share per input slot,
// aligned by index. Callers must pass tenants in a stable order (floor
// ascending) because the last tenant of whichever pool applies absorbs all
// rounding drift; that rule is what guarantees the shares sum to exactly
// total.
//
// Rules, in order:
//   - total 0 (or empty input): every share is 0.
//   - nobody has a usable reading: equal split across all tenants,
//     floor(total/n) each with the last absorbing the remainder.
//   - readings exist but sum to 0: the same equal split, but only across
//     tenants that have a reading; everyone else gets 0.
//   - otherwise: proportional split, round(total*usage/totalUsage) for all
//     but the last reading-holder, which takes total minus what was handed
//     out. Tenants without a reading get 0.
func Allocate(total int64, tenants []TenantUsage) []int64 {
	shares := make([]int64, len(tenants))
	if total == 0 || len(tenants) == 0 {
		return shares
	}

	type pooled struct {
		idx   int
		usage float64
	}
	var pool []pooled
	var totalUsage float64
	for i, t := range tenants {
		if t.Usage == nil || *t.Usage < 0 {
			continue
		}
		pool = append(pool, pooled{idx: i, usage: *t.Usage})
		totalUsage += *t.Usage
	}

	switch {
	case len(pool) == 0:
		base := total / int64(len(tenants))
		var allocated int64
		for i := range tenants {
			if i == len(tenants)-1 {
				shares[i] = total - allocated
				break
			}
			shares[i] = base
			allocated += base
		}

	case totalUsage == 0:
		base := total / int64(len(pool))
		var allocated int64
		for k, p := range pool {
			if k == len(pool)-1 {
				shares[p.idx] = total - allocated
				break
			}
			shares[p.idx] = base
			allocated += base
		}

	default:
		var allocated int64
		for k, p := range pool {
			if k == len(pool)-1 {
				shares[p.idx] = total - allocated
				break
			}
			share := int64(math.Round(float64(total) * p.usage / totalUsage))
			shares[p.idx] = share
			allocated += share
		}
	}

	return shares
}
