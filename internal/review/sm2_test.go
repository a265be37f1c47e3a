package review

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeNext(t *testing.T) {
	tests := []struct {
		name         string
		ef           float64
		interval     int
		shown        int
		quality      int
		wantInterval int
		wantEF       float64
	}{
		{"failure resets interval", 2.5, 10, 4, 2, 1, 2.18},
		{"quality 0 floors ease", 1.5, 3, 2, 0, 1, 1.3},
		{"first success", 2.5, 1, 1, 5, 6, 2.6},
		{"first success never shown", 2.5, 1, 0, 4, 6, 2.5},
		{"second success keeps six days", 2.6, 6, 1, 5, 6, 2.7},
		{"third success grows", 2.7, 6, 2, 5, 16, 2.8},
		{"subsequent success", 2.0, 6, 3, 5, 12, 2.1},
		{"subsequent success rounds", 2.5, 6, 2, 3, 15, 2.36},
		{"quality 3 near floor", 1.3, 4, 5, 3, 5, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotInterval, gotEF := ComputeNext(tt.ef, tt.interval, tt.shown, tt.quality)
			if gotInterval != tt.wantInterval {
				t.Errorf("ComputeNext interval = %d, want %d", gotInterval, tt.wantInterval)
			}
			if !approx(gotEF, tt.wantEF) {
				t.Errorf("ComputeNext ease = %f, want %f", gotEF, tt.wantEF)
			}
		})
	}
}

func TestComputeNextEaseNeverBelowFloor(t *testing.T) {
	for q := 0; q <= 5; q++ {
		for _, ef := range []float64{1.3, 1.31, 1.5, 2.5, 3.0} {
			for shown := 0; shown < 4; shown++ {
				_, got := ComputeNext(ef, 6, shown, q)
				if got < MinEaseFactor {
					t.Errorf("ComputeNext(%f, 6, %d, %d) ease = %f, below floor", ef, shown, q, got)
				}
			}
		}
	}
}

func TestComputeNextFailureAlwaysOneDay(t *testing.T) {
	for q := 0; q < 3; q++ {
		for _, interval := range []int{1, 6, 30, 365} {
			got, _ := ComputeNext(2.5, interval, 7, q)
			if got != 1 {
				t.Errorf("ComputeNext(2.5, %d, 7, %d) interval = %d, want 1", interval, q, got)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	for q := 0; q <= 5; q++ {
		if err := Validate(q); err != nil {
			t.Errorf("Validate(%d) = %v, want nil", q, err)
		}
	}
	for _, q := range []int{-1, 6, 100} {
		if err := Validate(q); !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("Validate(%d) = %v, want ErrInvalidQuality", q, err)
		}
	}
}
