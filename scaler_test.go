package chartdeck

import (
	"math"
	"slices"
	"testing"
)

func TestNumberScaler(t *testing.T) {
	s := NumberScaler(NumberDomain(0, 200), NewRange(300, 100))
	tests := []struct {
		Value float64
		Want  float64
	}{
		{Value: 0, Want: 300},
		{Value: 100, Want: 200},
		{Value: 200, Want: 100},
	}
	for _, tt := range tests {
		if got := s.Scale(tt.Value); math.Abs(got-tt.Want) > epsilon {
			t.Errorf("%f: position mismatched! want %f, got %f", tt.Value, tt.Want, got)
		}
	}
	if s.Min() != 100 || s.Max() != 300 {
		t.Errorf("range bounds mismatched! got [%f %f]", s.Min(), s.Max())
	}
	flat := NumberScaler(NumberDomain(5, 5), NewRange(0, 100))
	if got := flat.Scale(5); got != 0 {
		t.Errorf("empty domain should map to the start of the range, got %f", got)
	}
}

func TestStringScaler(t *testing.T) {
	s := StringScaler([]string{"a", "b", "a", "c", "d"}, NewRange(0, 400))
	if got := s.Values(0); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("values should be distinct and ordered: got %v", got)
	}
	if s.Space() != 100 {
		t.Errorf("band mismatched! want 100, got %f", s.Space())
	}
	if got := Center(s, "c"); got != 250 {
		t.Errorf("center mismatched! want 250, got %f", got)
	}
}

func TestDomainMerge(t *testing.T) {
	d, err := NumberDomain(10, 20).Merge(NumberDomain(0, 50))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := d.Extend(); got != 50 {
		t.Errorf("merged extent mismatched! want 50, got %f", got)
	}
	if got := d.Diff(10); got != 10 {
		t.Errorf("merged start mismatched! want 10, got %f", got)
	}
}

func TestNiceTicks(t *testing.T) {
	tests := []struct {
		Lo    float64
		Hi    float64
		Count int
		Want  []float64
	}{
		{Lo: 0, Hi: 200, Count: 5, Want: []float64{0, 50, 100, 150, 200}},
		{Lo: 0, Hi: 1, Count: 5, Want: []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{Lo: -50, Hi: 120, Count: 5, Want: []float64{-50, 0, 50, 100}},
		{Lo: 3, Hi: 3, Count: 5, Want: []float64{3}},
	}
	for _, tt := range tests {
		got := niceTicks(tt.Lo, tt.Hi, tt.Count)
		if len(got) != len(tt.Want) {
			t.Errorf("[%f %f]: ticks mismatched! want %v, got %v", tt.Lo, tt.Hi, tt.Want, got)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.Want[i]) > 1e-9 {
				t.Errorf("[%f %f]: ticks mismatched! want %v, got %v", tt.Lo, tt.Hi, tt.Want, got)
				break
			}
		}
	}
}
