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

// Package subtle implements the AES-GCM-SIV engine underlying the public
// API of this module.
//
// The code here is careful, but using it correctly requires understanding
// RFC 8452. Most callers should use the parent aesgcmsiv package instead.
package subtle

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"

	"github.com/sivtools/aesgcmsiv/internal/polyval"
)

const (
	// AESGCMSIVNonceSize is the nonce size mandated by RFC 8452.
	AESGCMSIVNonceSize = 12

	// AESGCMSIVTagSize is the byte length of the authentication tag.
	AESGCMSIVTagSize = 16

	aesgcmsivBlockSize = 16

	// maxPlaintextAndAADSize is the RFC 8452 limit on the combined length
	// of the plaintext and the additional authenticated data.
	maxPlaintextAndAADSize = 1<<36 - 31
)

var (
	// ErrInvalidKeySize is returned when the key is not 16 or 32 bytes.
	ErrInvalidKeySize = errors.New("aes_gcm_siv: invalid key size")

	// ErrInvalidNonceSize is returned when the nonce is not 12 bytes.
	ErrInvalidNonceSize = errors.New("aes_gcm_siv: invalid nonce size")

	// ErrInputTooLarge is returned when the plaintext and additional data
	// together exceed 2^36 - 31 bytes.
	ErrInputTooLarge = errors.New("aes_gcm_siv: plaintext and additional data too large")

	// ErrMalformedCiphertext is returned on decryption of an input shorter
	// than the authentication tag.
	ErrMalformedCiphertext = errors.New("aes_gcm_siv: ciphertext shorter than tag")

	// ErrAuthenticationFailure is returned when tag verification fails.
	ErrAuthenticationFailure = errors.New("aes_gcm_siv: message authentication failure")
)

// AESGCMSIV is an implementation of AES-GCM-SIV as defined in RFC 8452.
// The key argument to NewAESGCMSIV selects AES-128 (16 bytes) or AES-256
// (32 bytes). Per-message subkeys are derived from the key and the nonce
// on every call and wiped before returning, so instances are safe for
// concurrent use.
type AESGCMSIV struct {
	key []byte
}

// NewAESGCMSIV returns an AESGCMSIV keyed with the given 16- or 32-byte
// key.
func NewAESGCMSIV(key []byte) (*AESGCMSIV, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, ErrInvalidKeySize
	}
	return &AESGCMSIV{key: append([]byte(nil), key...)}, nil
}

// Encrypt encrypts plaintext with additionalData under the given 12-byte
// nonce and returns ciphertext || tag. The nonce and additionalData are
// not part of the output; the caller transports them out of band.
func (a *AESGCMSIV) Encrypt(nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(nonce) != AESGCMSIVNonceSize {
		return nil, ErrInvalidNonceSize
	}
	if err := validateSizes(uint64(len(plaintext)), uint64(len(additionalData))); err != nil {
		return nil, err
	}

	authKey, encKey, err := a.deriveKeys(nonce)
	if err != nil {
		return nil, err
	}
	defer wipe(authKey)
	defer wipe(encKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("aes_gcm_siv: failed to create block cipher: %v", err)
	}

	tag, err := computeTag(block, authKey, nonce, plaintext, additionalData)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(plaintext)+AESGCMSIVTagSize)
	aesCTR(block, tag, out[:len(plaintext)], plaintext)
	copy(out[len(plaintext):], tag)
	return out, nil
}

// Decrypt authenticates ciphertext (in the form ciphertext || tag) and
// additionalData under the given nonce and returns the plaintext. No
// plaintext, partial or full, is released on authentication failure.
func (a *AESGCMSIV) Decrypt(nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != AESGCMSIVNonceSize {
		return nil, ErrInvalidNonceSize
	}
	if len(ciphertext) < AESGCMSIVTagSize {
		return nil, ErrMalformedCiphertext
	}
	ct := ciphertext[:len(ciphertext)-AESGCMSIVTagSize]
	tag := ciphertext[len(ciphertext)-AESGCMSIVTagSize:]
	if err := validateSizes(uint64(len(ct)), uint64(len(additionalData))); err != nil {
		return nil, err
	}

	authKey, encKey, err := a.deriveKeys(nonce)
	if err != nil {
		return nil, err
	}
	defer wipe(authKey)
	defer wipe(encKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("aes_gcm_siv: failed to create block cipher: %v", err)
	}

	// The keystream only depends on the received tag, so the candidate
	// plaintext can be recovered before verification. It is never returned
	// unless the recomputed tag matches.
	pt := make([]byte, len(ct))
	aesCTR(block, tag, pt, ct)

	wantTag, err := computeTag(block, authKey, nonce, pt, additionalData)
	if err != nil {
		wipe(pt)
		return nil, err
	}
	if subtle.ConstantTimeCompare(wantTag, tag) != 1 {
		wipe(pt)
		return nil, ErrAuthenticationFailure
	}
	return pt, nil
}

// validateSizes enforces the combined plaintext and additional data limit
// from RFC 8452.
func validateSizes(plaintextLen, additionalDataLen uint64) error {
	if plaintextLen+additionalDataLen > maxPlaintextAndAADSize {
		return ErrInputTooLarge
	}
	return nil
}

// deriveKeys derives the per-message authentication and encryption keys
// from the long-term key and the nonce, per RFC 8452, Section 4. Each
// 16-byte block little_endian_uint32(i) || nonce is encrypted with the
// long-term key and the low 8 bytes of the result form half of a subkey.
// The caller owns the returned keys and must wipe them after use.
func (a *AESGCMSIV) deriveKeys(nonce []byte) (authKey, encKey []byte, err error) {
	block, err := aes.NewCipher(a.key)
	if err != nil {
		return nil, nil, fmt.Errorf("aes_gcm_siv: failed to create block cipher: %v", err)
	}

	var in, out [aesgcmsivBlockSize]byte
	copy(in[4:], nonce)
	derive := func(counter uint32, dst []byte) {
		binary.LittleEndian.PutUint32(in[:4], counter)
		block.Encrypt(out[:], in[:])
		copy(dst, out[:8])
	}

	authKey = make([]byte, 16)
	derive(0, authKey[:8])
	derive(1, authKey[8:])

	encKey = make([]byte, len(a.key))
	derive(2, encKey[:8])
	derive(3, encKey[8:16])
	if len(a.key) == 32 {
		derive(4, encKey[16:24])
		derive(5, encKey[24:])
	}

	wipe(out[:])
	return authKey, encKey, nil
}

// computeTag runs POLYVAL over the zero-padded additional data, the
// zero-padded plaintext and the length block, applies the nonce XOR and
// the top-bit clear from RFC 8452, Section 5, and encrypts the result.
func computeTag(block cipher.Block, authKey, nonce, plaintext, additionalData []byte) ([]byte, error) {
	p, err := polyval.New(authKey)
	if err != nil {
		return nil, fmt.Errorf("aes_gcm_siv: %v", err)
	}
	defer p.Wipe()

	p.Update(additionalData)
	p.Update(plaintext)
	var length [aesgcmsivBlockSize]byte
	binary.LittleEndian.PutUint64(length[:8], uint64(len(additionalData))*8)
	binary.LittleEndian.PutUint64(length[8:], uint64(len(plaintext))*8)
	p.Update(length[:])

	s := p.Finish()
	for i := 0; i < AESGCMSIVNonceSize; i++ {
		s[i] ^= nonce[i]
	}
	s[aesgcmsivBlockSize-1] &= 0x7f

	tag := make([]byte, AESGCMSIVTagSize)
	block.Encrypt(tag, s[:])
	wipe(s[:])
	return tag, nil
}

// aesCTR XORs src with the RFC 8452 counter-mode keystream into dst. The
// initial counter block is the tag with its most significant bit set; the
// low 32 bits increment per block with no carry into the upper 96 bits.
// This differs from standard AES-CTR, so cipher.NewCTR cannot be used.
func aesCTR(block cipher.Block, tag, dst, src []byte) {
	var counter, keystream [aesgcmsivBlockSize]byte
	copy(counter[:], tag)
	counter[aesgcmsivBlockSize-1] |= 0x80
	ctr := binary.LittleEndian.Uint32(counter[:4])

	for n := 0; n < len(src); n += aesgcmsivBlockSize {
		block.Encrypt(keystream[:], counter[:])
		ctr++
		binary.LittleEndian.PutUint32(counter[:4], ctr)
		subtle.XORBytes(dst[n:], src[n:], keystream[:])
	}

	wipe(counter[:])
	wipe(keystream[:])
}

// wipe zeroes b so per-message key material does not outlive its call.
//
//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
