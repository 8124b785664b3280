package query

// Range is a numeric interval over canonical (meter) lengths. Min is always
// present; Max is ignored when Unbounded is set.
type Range struct {
	Min          float64
	Max          float64
	MinExclusive bool
	Unbounded    bool
}

// Contains reports whether v falls inside the range. The upper bound is
// always inclusive for bounded ranges.
func (r Range) Contains(v float64) bool {
	if r.MinExclusive {
		if v <= r.Min {
			return false
		}
	} else if v < r.Min {
		return false
	}
	if r.Unbounded {
		return true
	}
	return v <= r.Max
}

// BucketKeys lists the supported range bucket names in ascending order.
var BucketKeys = []string{"0-1", "1-3", "3-5", "5-10", "10+"}

var buckets = map[string]Range{
	// The first bucket is closed on both ends so a zero remaining length
	// still lands in it; the rest are half-open (lo, hi] and together the
	// five buckets partition [0, inf) exactly once.
	"0-1":  {Min: 0, Max: 1},
	"1-3":  {Min: 1, Max: 3, MinExclusive: true},
	"3-5":  {Min: 3, Max: 5, MinExclusive: true},
	"5-10": {Min: 5, Max: 10, MinExclusive: true},
	"10+":  {Min: 10, MinExclusive: true, Unbounded: true},
}

// ResolveBucket maps a bucket key to its interval. Unknown keys report
// ok=false and callers add no range constraint for them.
func ResolveBucket(key string) (Range, bool) {
	r, ok := buckets[key]
	return r, ok
}
