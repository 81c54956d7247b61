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

package aesgcmsiv

import (
	"crypto/cipher"

	"github.com/sivtools/aesgcmsiv/subtle"
	"github.com/sivtools/aesgcmsiv/subtle/random"
)

const (
	// NonceSize is the nonce size in bytes.
	NonceSize = subtle.AESGCMSIVNonceSize

	// TagSize is the size of the appended authentication tag in bytes.
	TagSize = subtle.AESGCMSIVTagSize

	// KeySize128 is the key size for AES-128-GCM-SIV.
	KeySize128 = 16

	// KeySize256 is the key size for AES-256-GCM-SIV.
	KeySize256 = 32
)

// Errors returned by Encrypt, Decrypt and New.
var (
	ErrInvalidKeySize        = subtle.ErrInvalidKeySize
	ErrInvalidNonceSize      = subtle.ErrInvalidNonceSize
	ErrInputTooLarge         = subtle.ErrInputTooLarge
	ErrMalformedCiphertext   = subtle.ErrMalformedCiphertext
	ErrAuthenticationFailure = subtle.ErrAuthenticationFailure
)

// Encrypt encrypts plaintext with additionalData under key and the
// 12-byte nonce, returning ciphertext with the 16-byte authentication tag
// appended. The key selects AES-128 (16 bytes) or AES-256 (32 bytes).
//
// The nonce and additionalData are not embedded in the output and must be
// transported out of band. A (key, nonce) pair must never be reused for
// two distinct plaintexts.
func Encrypt(key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	a, err := subtle.NewAESGCMSIV(key)
	if err != nil {
		return nil, err
	}
	return a.Encrypt(nonce, plaintext, additionalData)
}

// Decrypt authenticates ciphertext (with the tag appended) and
// additionalData under key and nonce and returns the plaintext. It
// returns ErrAuthenticationFailure if the input was not produced by
// Encrypt with the same key, nonce and additionalData.
func Decrypt(key, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	a, err := subtle.NewAESGCMSIV(key)
	if err != nil {
		return nil, err
	}
	return a.Decrypt(nonce, ciphertext, additionalData)
}

// GenerateNonce returns a fresh random 12-byte nonce.
func GenerateNonce() []byte {
	return random.GetRandomBytes(NonceSize)
}

// New returns a cipher.AEAD instance of AES-GCM-SIV keyed with the given
// 16- or 32-byte key. Per the cipher.AEAD contract, Seal panics on caller
// errors such as a wrong-sized nonce; callers who prefer error returns
// should use Encrypt and Decrypt.
func New(key []byte) (cipher.AEAD, error) {
	a, err := subtle.NewAESGCMSIV(key)
	if err != nil {
		return nil, err
	}
	return &aead{raw: a}, nil
}

type aead struct {
	raw *subtle.AESGCMSIV
}

var _ cipher.AEAD = (*aead)(nil)

func (*aead) NonceSize() int {
	return NonceSize
}

func (*aead) Overhead() int {
	return TagSize
}

func (a *aead) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	ct, err := a.raw.Encrypt(nonce, plaintext, additionalData)
	if err != nil {
		panic("aesgcmsiv: " + err.Error())
	}
	return append(dst, ct...)
}

func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	pt, err := a.raw.Decrypt(nonce, ciphertext, additionalData)
	if err != nil {
		return nil, err
	}
	return append(dst, pt...), nil
}
