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

// Package aesgcmsiv implements AES-GCM-SIV, the nonce-misuse-resistant
// authenticated encryption with associated data (AEAD) scheme defined in
// RFC 8452.
//
// AES-GCM-SIV accepts 16-byte (AES-128) or 32-byte (AES-256) keys and a
// 12-byte nonce. Encryption appends a 16-byte authentication tag to the
// ciphertext; the nonce and the associated data are not embedded in the
// output and must be transported out of band.
//
// # Security notes
//
// A (key, nonce) pair must never be reused for two distinct plaintexts.
// Unlike AES-GCM, where nonce reuse is catastrophic, AES-GCM-SIV degrades
// gracefully: repeating a nonce reveals only whether two messages were
// identical. The library cannot enforce this contract; callers who cannot
// track nonces should generate them with GenerateNonce.
//
// Encryption is deterministic for a fixed (key, nonce, plaintext,
// associated data) tuple. This is a design property of SIV-mode schemes.
//
// The combined length of the plaintext and the associated data must not
// exceed 2^36 - 31 bytes per message.
package aesgcmsiv
