package moneybag

import (
	"cmp"
	"math/big"
)

// Value is a non-negative amount of deniers. It is wide enough for any purse.
type Value struct {
	hi, lo uint64
}

// ValueOf returns n deniers.
func ValueOf(n uint64) Value {
	return Value{lo: n}
}

// Compare returns -1, 0 or +1.
func (v Value) Compare(o Value) int {
	if c := cmp.Compare(v.hi, o.hi); c != 0 {
		return c
	}
	return cmp.Compare(v.lo, o.lo)
}

// CompareUint64 compares v with n deniers.
func (v Value) CompareUint64(n uint64) int {
	return v.Compare(ValueOf(n))
}

func (v Value) String() string {
	b := new(big.Int).SetUint64(v.hi)
	b.Lsh(b, 64)
	b.Or(b, new(big.Int).SetUint64(v.lo))
	return b.String()
}
