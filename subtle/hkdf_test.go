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

package subtle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeHKDFRFC5869TestCase1(t *testing.T) {
	ikm := mustDecodeHex(t, "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	salt := mustDecodeHex(t, "000102030405060708090a0b0c")
	info := mustDecodeHex(t, "f0f1f2f3f4f5f6f7f8f9")
	want := mustDecodeHex(t, "3cb25f25faacd57a90434f64d0362f2a"+
		"2d2d0a90cf1a5a4c5db02d56ecc4c5bf"+
		"34007208d5b887185865")

	got, err := ComputeHKDF("SHA256", ikm, salt, info, 42)
	if err != nil {
		t.Fatalf("ComputeHKDF() err = %v, want nil", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeHKDF() returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestComputeHKDFEmptySaltMatchesZeroSalt(t *testing.T) {
	ikm := mustDecodeHex(t, "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	zeroSalt := make([]byte, 32)

	a, err := ComputeHKDF("SHA256", ikm, nil, nil, 32)
	if err != nil {
		t.Fatalf("ComputeHKDF() err = %v, want nil", err)
	}
	b, err := ComputeHKDF("SHA256", ikm, zeroSalt, nil, 32)
	if err != nil {
		t.Fatalf("ComputeHKDF() err = %v, want nil", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("ComputeHKDF() with empty and zero salt differ (-want +got):\n%s", diff)
	}
}

func TestComputeHKDFRejectsBadParameters(t *testing.T) {
	ikm := make([]byte, 16)
	if _, err := ComputeHKDF("MD5", ikm, nil, nil, 16); err == nil {
		t.Errorf("ComputeHKDF() with invalid hash err = nil, want error")
	}
	if _, err := ComputeHKDF("SHA256", ikm, nil, nil, 255*32+1); err == nil {
		t.Errorf("ComputeHKDF() with oversized output err = nil, want error")
	}
}
