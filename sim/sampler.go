// Bounded-random duration sampling. Durations are drawn from a normal
// distribution, clamped to optional bounds, then optionally truncated
// toward zero. Clamp order (upper first, then lower) and
// truncate-after-clamp are load-bearing: fixed-bound scenarios depend
// on the resulting values exactly.

package sim

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// Bound is one end of a duration clamp. It is either an absolute value
// or a count of standard deviations from the mean ("2s" in scenario
// files, meaning mean +/- 2*stdDev depending on which end it bounds).
type Bound struct {
	value  float64
	sigmas bool
}

// Absolute returns a bound at a fixed value.
func Absolute(v float64) *Bound {
	return &Bound{value: v}
}

// Sigmas returns a bound k standard deviations from the mean.
func Sigmas(k float64) *Bound {
	return &Bound{value: k, sigmas: true}
}

// Resolve turns the bound into a concrete value for the given
// distribution. An upper sigma bound resolves to mean + k*stdDev, a
// lower one to mean - k*stdDev.
func (b *Bound) Resolve(mean, stdDev float64, upper bool) float64 {
	if !b.sigmas {
		return b.value
	}
	if upper {
		return mean + stdDev*b.value
	}
	return mean - stdDev*b.value
}

// UnmarshalYAML accepts either a plain number (absolute bound) or a
// string containing the letter 's' and a number (sigma bound), e.g.
// "3s".
func (b *Bound) UnmarshalYAML(unmarshal func(any) error) error {
	var num float64
	if err := unmarshal(&num); err == nil {
		b.value = num
		b.sigmas = false
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("%w: bound must be a number or a sigma string like \"3s\"", ErrInvalidConfiguration)
	}
	if !strings.Contains(s, "s") {
		return fmt.Errorf("%w: bound string %q has no 's' marker", ErrInvalidConfiguration, s)
	}
	k, err := strconv.ParseFloat(strings.ReplaceAll(s, "s", ""), 64)
	if err != nil {
		return fmt.Errorf("%w: bound string %q: %v", ErrInvalidConfiguration, s, err)
	}
	b.value = k
	b.sigmas = true
	return nil
}

// DurationSpec describes the occupancy-time distribution of one care
// activity. Integer output truncates toward zero after clamping. A
// missing lower bound leaves negative draws unclamped.
type DurationSpec struct {
	Mean    float64
	StdDev  float64
	Lower   *Bound
	Upper   *Bound
	Integer bool
}

// Fixed is a spec with zero spread: every sample equals mean.
func Fixed(mean float64) DurationSpec {
	return DurationSpec{Mean: mean, Integer: true}
}

// Validate checks the distribution parameters for contradictions
// before a run starts.
// Resolvable bounds with lower above upper fail with
// ErrInvalidConfiguration rather than being silently reordered.
func (d DurationSpec) Validate() error {
	if d.StdDev < 0 {
		return fmt.Errorf("%w: negative stdDev %v", ErrInvalidConfiguration, d.StdDev)
	}
	if d.Lower != nil && d.Upper != nil {
		lo := d.Lower.Resolve(d.Mean, d.StdDev, false)
		hi := d.Upper.Resolve(d.Mean, d.StdDev, true)
		if lo > hi {
			return fmt.Errorf("%w: lower bound %v exceeds upper bound %v", ErrInvalidConfiguration, lo, hi)
		}
	}
	return nil
}

// Sampler draws bounded durations from an injected random source, so a
// fixed seed reproduces the exact sample sequence.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler on rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample draws one duration. With StdDev zero the draw is exactly Mean
// (one random number is still consumed, keeping stream positions
// stable across spec changes).
func (s *Sampler) Sample(spec DurationSpec) float64 {
	n := s.rng.NormFloat64()*spec.StdDev + spec.Mean

	if spec.Upper != nil {
		if max := spec.Upper.Resolve(spec.Mean, spec.StdDev, true); n > max {
			n = max
		}
	}
	if spec.Lower != nil {
		if min := spec.Lower.Resolve(spec.Mean, spec.StdDev, false); n < min {
			n = min
		}
	}
	if spec.Integer {
		n = math.Trunc(n)
	}
	return n
}
