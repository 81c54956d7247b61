// Copyright 2025 The sivtools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package polyval

import (
	"encoding/hex"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustDecodeHex(t *testing.T, hexStr string) []byte {
	t.Helper()
	x, err := hex.DecodeString(hexStr)
	if err != nil {
		t.Fatalf("hex.DecodeString(%v) err = %v, want nil", hexStr, err)
	}
	return x
}

func TestMulXMovesLowBitUp(t *testing.T) {
	// RFC 8452, Section 3: mulX_POLYVAL(01000000000000000000000000000000)
	// = 02000000000000000000000000000000.
	in := fieldElementFromBytes(mustDecodeHex(t, "01000000000000000000000000000000"))
	got := mulX(in).bytes()
	want := mustDecodeHex(t, "02000000000000000000000000000000")
	if diff := cmp.Diff(want, got[:]); diff != "" {
		t.Errorf("mulX() returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestMulByOneIsIdentity(t *testing.T) {
	a := fieldElementFromBytes(mustDecodeHex(t, "9c98c04df9387ded828175a92ba652d8"))
	one := fieldElement{1, 0}
	if got := mul(a, one); got != a {
		t.Errorf("mul(a, 1) = %v, want %v", got, a)
	}
	if got := mul(one, a); got != a {
		t.Errorf("mul(1, a) = %v, want %v", got, a)
	}
}

func TestRFC8452WorkedExample(t *testing.T) {
	// RFC 8452, Appendix A: POLYVAL(H, X_1, X_2).
	h := mustDecodeHex(t, "25629347589242761d31f826ba4b757b")
	x1 := mustDecodeHex(t, "4f4f95668c83dfb6401762bb2d01a262")
	x2 := mustDecodeHex(t, "d1a24ddd2721d006bbe45f20d3c9f362")
	want := mustDecodeHex(t, "f7a3b47b846119fae5b7866cf5e5b77e")

	p, err := New(h)
	if err != nil {
		t.Fatalf("New() err = %v, want nil", err)
	}
	p.Update(x1)
	p.Update(x2)
	got := p.Finish()
	if diff := cmp.Diff(want, got[:]); diff != "" {
		t.Errorf("Finish() returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestUpdateAcceptsMultipleBlocksAtOnce(t *testing.T) {
	h := mustDecodeHex(t, "25629347589242761d31f826ba4b757b")
	x1 := mustDecodeHex(t, "4f4f95668c83dfb6401762bb2d01a262")
	x2 := mustDecodeHex(t, "d1a24ddd2721d006bbe45f20d3c9f362")

	blockwise, err := New(h)
	if err != nil {
		t.Fatalf("New() err = %v, want nil", err)
	}
	blockwise.Update(x1)
	blockwise.Update(x2)

	combined, err := New(h)
	if err != nil {
		t.Fatalf("New() err = %v, want nil", err)
	}
	combined.Update(append(append([]byte(nil), x1...), x2...))

	if got, want := combined.Finish(), blockwise.Finish(); got != want {
		t.Errorf("Finish() = %x, want %x", got, want)
	}
}

func TestUpdateZeroPadsPartialBlock(t *testing.T) {
	h := mustDecodeHex(t, "25629347589242761d31f826ba4b757b")
	msg := mustDecodeHex(t, "4f4f95668c83dfb6401762bb2d01a262d1a24ddd")

	short, err := New(h)
	if err != nil {
		t.Fatalf("New() err = %v, want nil", err)
	}
	short.Update(msg)

	padded, err := New(h)
	if err != nil {
		t.Fatalf("New() err = %v, want nil", err)
	}
	paddedMsg := make([]byte, 2*BlockSize)
	copy(paddedMsg, msg)
	padded.Update(paddedMsg)

	if got, want := short.Finish(), padded.Finish(); got != want {
		t.Errorf("Finish() = %x, want %x", got, want)
	}
}

func TestUpdateOfNothingLeavesStateUnchanged(t *testing.T) {
	h := mustDecodeHex(t, "25629347589242761d31f826ba4b757b")
	p, err := New(h)
	if err != nil {
		t.Fatalf("New() err = %v, want nil", err)
	}
	p.Update(nil)
	if got := p.Finish(); got != [BlockSize]byte{} {
		t.Errorf("Finish() = %x, want all zeros", got)
	}
}

func TestNewRejectsInvalidKeySize(t *testing.T) {
	for _, keySize := range []int{0, 8, 15, 17, 32} {
		if _, err := New(make([]byte, keySize)); err == nil {
			t.Errorf("New() with key size %d err = nil, want error", keySize)
		}
	}
}

func TestWipeClearsState(t *testing.T) {
	h := mustDecodeHex(t, "25629347589242761d31f826ba4b757b")
	p, err := New(h)
	if err != nil {
		t.Fatalf("New() err = %v, want nil", err)
	}
	p.Update(mustDecodeHex(t, "4f4f95668c83dfb6401762bb2d01a262"))
	p.Wipe()
	if p.h != (fieldElement{}) || p.s != (fieldElement{}) {
		t.Errorf("Wipe() left state h = %v, s = %v, want zeros", p.h, p.s)
	}
}
