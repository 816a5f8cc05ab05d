// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package num

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Uint A wrapper to a big unsigned int so that we can implement custom
// functions.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the
// uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintZero returns a new Uint set to 0.
func UintZero() *Uint {
	return NewUint(0)
}

// UintOne returns a new Uint set to 1.
func UintOne() *Uint {
	return NewUint(1)
}

// UintFromBig construct a new Uint with a big.Int
// returns true if overflow happened.
func UintFromBig(b *big.Int) (*Uint, bool) {
	u, overflow := uint256.FromBig(b)
	if overflow {
		return UintZero(), true
	}
	return &Uint{*u}, false
}

// MustUintFromBig returns a Uint from a big.Int, it panics on overflow or
// negative input. To be used only with values known to be in range.
func MustUintFromBig(b *big.Int) *Uint {
	if b.Sign() < 0 {
		panic("cannot make a Uint from a negative big.Int")
	}
	u, overflow := UintFromBig(b)
	if overflow {
		panic("big.Int overflows a Uint")
	}
	return u
}

// UintFromDecimal returns a Uint from a Decimal, the fractional part is
// truncated. Returns true if the decimal was negative or overflowed.
func UintFromDecimal(d Decimal) (*Uint, bool) {
	if d.IsNegative() {
		return UintZero(), true
	}
	return UintFromBig(d.BigInt())
}

// UintFromString created a new Uint from a string
// interpreted using the given base.
// A big.Int is used under the hood, so all its banter
// applies here too.
// Returns true on error.
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, base)
	if !ok {
		return UintZero(), true
	}
	return UintFromBig(b)
}

// MustUintFromString creates a new Uint from a base 10 string, it panics if
// the string is not a valid integer.
func MustUintFromString(str string) *Uint {
	u, fail := UintFromString(str, 10)
	if fail {
		panic("invalid uint string " + str)
	}
	return u
}

// Sum just removes the need to write num.UintZero().AddSum(x, y, z)
// so you can write num.Sum(x, y, z) instead, equivalent, but necessary
// often enough to warrant this function.
func Sum(vals ...*Uint) *Uint {
	return UintZero().AddSum(vals...)
}

// Min returns the smallest of the 2 numbers.
func Min(x, y *Uint) *Uint {
	if x.LT(y) {
		return x.Clone()
	}
	return y.Clone()
}

// Max returns the largest of the 2 numbers.
func Max(x, y *Uint) *Uint {
	if x.GT(y) {
		return x.Clone()
	}
	return y.Clone()
}

// Add will add x and y then store the result
// into u, this function is used for memory allocation
// optimisations. The result is returned.
func (u *Uint) Add(x, y *Uint) *Uint {
	u.u.Add(&x.u, &y.u)
	return u
}

// AddSum adds multiple values at the same time to a given uint
// so x.AddSum(y, z) is equivalent to x + y + z.
func (u *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		u.u.Add(&u.u, &x.u)
	}
	return u
}

// Sub will subtract y from x then store the result
// into u. The result is returned.
func (u *Uint) Sub(x, y *Uint) *Uint {
	u.u.Sub(&x.u, &y.u)
	return u
}

// Delta will subtract y from x and store the result unless x-y overflowed,
// in which case the neg field will be set and the result of y - x is set
// instead.
func (u *Uint) Delta(x, y *Uint) (*Uint, bool) {
	if x.GTE(y) {
		return u.Sub(x, y), false
	}
	return u.Sub(y, x), true
}

// Mul will multiply x and y then store the result
// into u. The result is returned.
func (u *Uint) Mul(x, y *Uint) *Uint {
	u.u.Mul(&x.u, &y.u)
	return u
}

// Div will divide x by y then store the result
// into u. The result is returned.
func (u *Uint) Div(x, y *Uint) *Uint {
	u.u.Div(&x.u, &y.u)
	return u
}

// Mod sets u to x modulo y and returns u.
func (u *Uint) Mod(x, y *Uint) *Uint {
	u.u.Mod(&x.u, &y.u)
	return u
}

// Clone creates a copy of the uint so that
// newly allocated memory is used.
func (u *Uint) Clone() *Uint {
	return &Uint{u.u}
}

// Copy stores the value of x into u, and returns u.
func (u *Uint) Copy(x *Uint) *Uint {
	u.u = x.u
	return u
}

// EQ returns true if the value is equal to oth.
func (u *Uint) EQ(oth *Uint) bool {
	return u.u.Eq(&oth.u)
}

// EQUint64 returns true if the value is equal to the given uint64.
func (u *Uint) EQUint64(oth uint64) bool {
	return u.u.Eq(uint256.NewInt(oth))
}

// NEQ returns true if the value is different from oth.
func (u *Uint) NEQ(oth *Uint) bool {
	return !u.u.Eq(&oth.u)
}

// LT returns true if the value is less than oth.
func (u *Uint) LT(oth *Uint) bool {
	return u.u.Lt(&oth.u)
}

// LTE returns true if the value is less than or equal to oth.
func (u *Uint) LTE(oth *Uint) bool {
	return u.u.Lt(&oth.u) || u.u.Eq(&oth.u)
}

// GT returns true if the value is greater than oth.
func (u *Uint) GT(oth *Uint) bool {
	return u.u.Gt(&oth.u)
}

// GTE returns true if the value is greater than or equal to oth.
func (u *Uint) GTE(oth *Uint) bool {
	return u.u.Gt(&oth.u) || u.u.Eq(&oth.u)
}

// IsZero returns true if the value is 0.
func (u *Uint) IsZero() bool {
	return u.u.IsZero()
}

// Uint64 returns the lower 64 bits of the value.
func (u *Uint) Uint64() uint64 {
	return u.u.Uint64()
}

// BigInt returns a big.Int with the same value.
func (u *Uint) BigInt() *big.Int {
	return u.u.ToBig()
}

// ToDecimal returns the value as a Decimal.
func (u *Uint) ToDecimal() Decimal {
	return DecimalFromUint(u)
}

func (u *Uint) String() string {
	return u.u.ToBig().String()
}
