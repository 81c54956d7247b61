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
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

func getHashFunc(hashAlg string) func() hash.Hash {
	switch hashAlg {
	case "SHA256":
		return sha256.New
	case "SHA512":
		return sha512.New
	}
	return nil
}

// ComputeHKDF derives size bytes of keying material from key, salt and
// info using HKDF (RFC 5869) over the given hash. An empty salt is
// replaced by a string of zeros of the hash length, per the RFC.
//
// This is intended for callers that hold input keying material rather
// than a uniformly random AES key; it does not stretch low-entropy
// secrets such as passwords.
func ComputeHKDF(hashAlg string, key, salt, info []byte, size uint32) ([]byte, error) {
	hashFunc := getHashFunc(hashAlg)
	if hashFunc == nil {
		return nil, fmt.Errorf("hkdf: invalid hash algorithm %q", hashAlg)
	}
	digestSize := uint32(hashFunc().Size())
	if size > 255*digestSize {
		return nil, fmt.Errorf("hkdf: size %d too large for %s", size, hashAlg)
	}
	if len(salt) == 0 {
		salt = make([]byte, digestSize)
	}

	result := make([]byte, size)
	kdf := hkdf.New(hashFunc, key, salt, info)
	if _, err := io.ReadFull(kdf, result); err != nil {
		return nil, fmt.Errorf("hkdf: compute failed: %v", err)
	}
	return result, nil
}
