package feed

import "github.com/yungbote/styleswipe-backend/internal/domain/catalog"

// PriceBucket maps a price to its tally key.
func PriceBucket(price float64) string {
	switch {
	case price < 50:
		return catalog.PriceRange0To50
	case price < 100:
		return catalog.PriceRange50To100
	case price < 200:
		return catalog.PriceRange100To200
	default:
		return catalog.PriceRange200Plus
	}
}

// PriceWindow is the half-open [Min, Max) price interval of a bucket.
// Unbounded windows have no upper limit.
type PriceWindow struct {
	Bucket    string
	Min       float64
	Max       float64
	Unbounded bool
}

// Contains reports whether price falls inside the window.
func (w PriceWindow) Contains(price float64) bool {
	if price < w.Min {
		return false
	}
	return w.Unbounded || price < w.Max
}

// PriceWindowFor returns the interval of a known bucket.
func PriceWindowFor(bucket string) (PriceWindow, bool) {
	switch bucket {
	case catalog.PriceRange0To50:
		return PriceWindow{Bucket: bucket, Min: 0, Max: 50}, true
	case catalog.PriceRange50To100:
		return PriceWindow{Bucket: bucket, Min: 50, Max: 100}, true
	case catalog.PriceRange100To200:
		return PriceWindow{Bucket: bucket, Min: 100, Max: 200}, true
	case catalog.PriceRange200Plus:
		return PriceWindow{Bucket: bucket, Min: 200, Unbounded: true}, true
	default:
		return PriceWindow{}, false
	}
}

func priceWindows(buckets []string) []PriceWindow {
	var out []PriceWindow
	for _, b := range buckets {
		if w, ok := PriceWindowFor(b); ok {
			out = append(out, w)
		}
	}
	return out
}
