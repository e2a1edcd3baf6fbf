package math

import (
	"fmt"
	"sort"
)

// NewCurve returns a curve holding a sorted copy of keys.
func NewCurve(keys ...Keyframe) Curve {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return Curve{Keys: sorted}
}

// NewLinearCurve returns a straight line from (timeStart, valueStart) to
// (timeEnd, valueEnd). The default height remap is NewLinearCurve(0, 0, 1, 1).
func NewLinearCurve(timeStart, valueStart, timeEnd, valueEnd float32) Curve {
	if timeStart == timeEnd {
		return NewCurve(Keyframe{Time: timeStart, Value: valueStart})
	}
	slope := (valueEnd - valueStart) / (timeEnd - timeStart)
	return NewCurve(
		Keyframe{Time: timeStart, Value: valueStart, InTangent: 0, OutTangent: slope},
		Keyframe{Time: timeEnd, Value: valueEnd, InTangent: slope, OutTangent: 0},
	)
}

// Evaluate returns the value of the curve at time t. Outside of the key range
// the curve holds the value of the first or last key. A curve without keys is
// the identity.
func (c Curve) Evaluate(t float32) float32 {
	n := len(c.Keys)
	switch {
	case n == 0:
		return t
	case n == 1 || t <= c.Keys[0].Time:
		return c.Keys[0].Value
	case t >= c.Keys[n-1].Time:
		return c.Keys[n-1].Value
	}

	// first key strictly after t
	hi := sort.Search(n, func(i int) bool { return c.Keys[i].Time > t })
	k0 := c.Keys[hi-1]
	k1 := c.Keys[hi]

	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*k0.OutTangent*dt + h01*k1.Value + h11*k1.InTangent*dt
}

// Sample evaluates the curve at t = i/count for i in [0, count).
func (c Curve) Sample(count int) []float32 {
	out := make([]float32, count)
	for i := 0; i < count; i++ {
		out[i] = c.Evaluate(float32(i) / float32(count))
	}
	return out
}

// Validate checks that keys are sorted by time without duplicates.
func (c Curve) Validate() error {
	for i := 1; i < len(c.Keys); i++ {
		if c.Keys[i].Time <= c.Keys[i-1].Time {
			return fmt.Errorf("curve keys must be strictly increasing in time (key %d at %f, key %d at %f)",
				i-1, c.Keys[i-1].Time, i, c.Keys[i].Time)
		}
	}
	return nil
}
