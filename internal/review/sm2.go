// Package review schedules questions for spaced repetition using the SM-2
// algorithm and selects the ones that are due.
package review

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	DefaultInterval   = 1

	// Quality recorded for practice answers.
	QualityCorrect   = 5
	QualityIncorrect = 2
)

var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

// Validate rejects qualities outside the SM-2 grading scale.
func Validate(quality int) error {
	if quality < 0 || quality > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}
	return nil
}

// ComputeNext returns the next review interval in days and the updated ease
// factor. timesShown counts earlier showings only, so the first two
// successes both give six days. It has no side effects and does not check
// quality; callers go through Validate first.
func ComputeNext(easeFactor float64, intervalDays, timesShown, quality int) (int, float64) {
	q := float64(quality)

	if quality < 3 {
		ef := easeFactor - 0.8 + 0.28*q - 0.02*q*q
		return 1, math.Max(MinEaseFactor, ef)
	}

	var next int
	if timesShown <= 1 {
		next = 6
	} else {
		next = int(math.Round(float64(intervalDays) * easeFactor))
	}

	d := 5 - q
	ef := easeFactor + (0.1 - d*(0.08+d*0.02))
	return next, math.Max(MinEaseFactor, ef)
}
