package keypager

const (
	// MaxLimit bounds the per-page limit so a single request cannot force an
	// arbitrarily expensive query.
	MaxLimit = 1000
	// DefaultLimit is used when a request supplies no limit.
	DefaultLimit = 100
)

func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}
