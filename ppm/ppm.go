// Package ppm implements order-0 PPM: a thin name over package arith's
// static frequency model, with no escape symbol or higher-order context
// modelling. Unlike the reference implementation this package rejects
// orders 1-3 outright rather than silently downgrading them to order 0.
package ppm

import (
	"github.com/soramame72/sor2/arith"
	"github.com/soramame72/sor2/internal/sorerrors"
)

// Order selects the context length used by the coder. Only OrderZero is
// implemented; OrderOne through OrderThree are recognised only so callers
// can reject them with a clear error instead of getting order-0 behavior
// under a misleading name.
type Order int

const (
	OrderZero Order = iota
	OrderOne
	OrderTwo
	OrderThree
)

// Encode compresses data under the given order. Only OrderZero is
// supported; any other order fails with CodecFailure.
func Encode(data []byte, order Order) ([]byte, error) {
	if order != OrderZero {
		return nil, sorerrors.E(sorerrors.CodecFailure, "ppm: order %d is not implemented, only order 0", order)
	}
	return arith.Encode(data), nil
}

// Decode reverses Encode. order must match the order Encode was called
// with; since only order 0 exists, any other value is rejected.
func Decode(payload []byte, order Order) ([]byte, error) {
	if order != OrderZero {
		return nil, sorerrors.E(sorerrors.CodecFailure, "ppm: order %d is not implemented, only order 0", order)
	}
	return arith.Decode(payload)
}
