package feed

import "testing"

func TestPriceBucketBoundaries(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{0, "$0-50"},
		{49.99, "$0-50"},
		{50, "$50-100"},
		{99.99, "$50-100"},
		{100, "$100-200"},
		{199.99, "$100-200"},
		{200, "$200+"},
		{1200, "$200+"},
	}
	for _, tc := range cases {
		if got := PriceBucket(tc.price); got != tc.want {
			t.Fatalf("PriceBucket(%v)=%q want %q", tc.price, got, tc.want)
		}
		w, ok := PriceWindowFor(tc.want)
		if !ok || !w.Contains(tc.price) {
			t.Fatalf("window %q should contain %v", tc.want, tc.price)
		}
	}
	if _, ok := PriceWindowFor("$5-10"); ok {
		t.Fatalf("unknown bucket should not resolve")
	}
}
