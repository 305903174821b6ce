// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ranges models half-open intervals over the coordinate space of a
// deposit contract. Coordinates are 256-bit unsigned integers, matching the
// numeric domain of the settlement contracts.
package ranges

import (
	"fmt"

	"github.com/0xsoniclabs/plasma/common"
	"github.com/holiman/uint256"
)

// ErrInvalidRange is returned when a range does not satisfy start < end.
const ErrInvalidRange = common.ConstError("invalid range")

// Range is the half-open interval [Start, End). A well-formed range has
// Start < End; degenerate and inverted ranges are rejected by the constructors
// and by Validate.
type Range struct {
	Start uint256.Int
	End   uint256.Int
}

// New creates the range [start, end).
func New(start, end uint64) (Range, error) {
	return NewFromInts(uint256.NewInt(start), uint256.NewInt(end))
}

// NewFromInts creates the range [start, end) from 256-bit coordinates.
func NewFromInts(start, end *uint256.Int) (Range, error) {
	r := Range{Start: *start, End: *end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Must is like New but panics on invalid input. Intended for constants and tests.
func Must(start, end uint64) Range {
	r, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks that the range is non-empty.
func (r Range) Validate() error {
	if !r.Start.Lt(&r.End) {
		return fmt.Errorf("%w: start %s must be less than end %s", ErrInvalidRange, r.Start.Dec(), r.End.Dec())
	}
	return nil
}

// Contains reports whether inner lies entirely within r.
func (r Range) Contains(inner Range) bool {
	return !inner.Start.Lt(&r.Start) && !r.End.Lt(&inner.End)
}

// Overlaps reports whether r and other share at least one coordinate.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Lt(&other.End) && other.Start.Lt(&r.End)
}

// Intersect returns the common part of r and other, if there is one.
func (r Range) Intersect(other Range) (Range, bool) {
	if !r.Overlaps(other) {
		return Range{}, false
	}
	res := r
	if res.Start.Lt(&other.Start) {
		res.Start = other.Start
	}
	if other.End.Lt(&res.End) {
		res.End = other.End
	}
	return res, true
}

// Size returns the number of coordinates covered by the range.
func (r Range) Size() *uint256.Int {
	return new(uint256.Int).Sub(&r.End, &r.Start)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Dec(), r.End.Dec())
}

// Contains reports whether outer covers inner, i.e.
// outer.Start <= inner.Start && inner.End <= outer.End.
func Contains(outer, inner Range) bool {
	return outer.Contains(inner)
}

// Overlaps reports whether a and b share any coordinate.
func Overlaps(a, b Range) bool {
	return a.Overlaps(b)
}
