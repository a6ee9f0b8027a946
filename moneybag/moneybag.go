// Package moneybag models a purse of livres, soliduses and deniers.
//
// Arithmetic is checked: a result that does not fit a coin counter is an
// error, never a wrapped value. Purses are only partially ordered; use Value
// for a total order (1 livre = 20 soliduses, 1 solidus = 12 deniers).
package moneybag

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrOverflow is returned when a coin counter would exceed its range.
	ErrOverflow = errors.New("moneybag: value can not be too large")
	// ErrUnderflow is returned when a coin counter would become negative.
	ErrUnderflow = errors.New("moneybag: value can not be negative")
)

// Moneybag is an immutable purse.
type Moneybag struct {
	livre   uint64
	solidus uint64
	denier  uint64
}

var (
	Livre   = New(1, 0, 0)
	Solidus = New(0, 1, 0)
	Denier  = New(0, 0, 1)
)

// New returns a purse with the given coin counts.
func New(livre, solidus, denier uint64) Moneybag {
	return Moneybag{livre: livre, solidus: solidus, denier: denier}
}

func (m Moneybag) LivreNumber() uint64   { return m.livre }
func (m Moneybag) SolidusNumber() uint64 { return m.solidus }
func (m Moneybag) DenierNumber() uint64  { return m.denier }

// IsZero reports whether the purse is empty.
func (m Moneybag) IsZero() bool {
	return m == Moneybag{}
}

// Add returns m + o.
func (m Moneybag) Add(o Moneybag) (Moneybag, error) {
	l, c1 := bits.Add64(m.livre, o.livre, 0)
	s, c2 := bits.Add64(m.solidus, o.solidus, 0)
	d, c3 := bits.Add64(m.denier, o.denier, 0)
	if c1|c2|c3 != 0 {
		return m, ErrOverflow
	}
	return New(l, s, d), nil
}

// Sub returns m - o. Every counter of o must fit in m.
func (m Moneybag) Sub(o Moneybag) (Moneybag, error) {
	l, b1 := bits.Sub64(m.livre, o.livre, 0)
	s, b2 := bits.Sub64(m.solidus, o.solidus, 0)
	d, b3 := bits.Sub64(m.denier, o.denier, 0)
	if b1|b2|b3 != 0 {
		return m, ErrUnderflow
	}
	return New(l, s, d), nil
}

// Mul returns m scaled by n.
func (m Moneybag) Mul(n uint64) (Moneybag, error) {
	var out [3]uint64
	for i, c := range [3]uint64{m.livre, m.solidus, m.denier} {
		hi, lo := bits.Mul64(c, n)
		if hi != 0 {
			return m, ErrOverflow
		}
		out[i] = lo
	}
	return New(out[0], out[1], out[2]), nil
}

// Ordering is the result of comparing two purses.
type Ordering int

const (
	Unordered Ordering = iota
	Less
	Equal
	Greater
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "unordered"
	}
}

// Compare orders purses counter by counter. Purses where one counter is
// larger and another smaller are Unordered.
func (m Moneybag) Compare(o Moneybag) Ordering {
	switch {
	case m == o:
		return Equal
	case m.livre >= o.livre && m.solidus >= o.solidus && m.denier >= o.denier:
		return Greater
	case m.livre <= o.livre && m.solidus <= o.solidus && m.denier <= o.denier:
		return Less
	default:
		return Unordered
	}
}

func plural(n uint64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// String formats the purse as "(1 livr, 2 soliduses, 0 deniers)".
func (m Moneybag) String() string {
	return fmt.Sprintf("(%d %s, %d %s, %d %s)",
		m.livre, plural(m.livre, "livr", "livres"),
		m.solidus, plural(m.solidus, "solidus", "soliduses"),
		m.denier, plural(m.denier, "denier", "deniers"))
}

// Value returns the worth of the purse in deniers.
func (m Moneybag) Value() Value {
	hi, lo := bits.Mul64(m.livre, 20*12)
	h2, l2 := bits.Mul64(m.solidus, 12)

	var c uint64
	lo, c = bits.Add64(lo, l2, 0)
	hi, _ = bits.Add64(hi, h2, c)
	lo, c = bits.Add64(lo, m.denier, 0)
	hi += c
	return Value{hi: hi, lo: lo}
}
