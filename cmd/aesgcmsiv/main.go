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

// Command aesgcmsiv encrypts and decrypts files with AES-GCM-SIV
// (RFC 8452).
//
//	aesgcmsiv encrypt -key KEYHEX -in plain.txt -out cipher.bin
//	aesgcmsiv decrypt -key KEYHEX -nonce NONCEHEX -in cipher.bin -out plain.txt
//	aesgcmsiv gen-nonce
//
// The output of encrypt is ciphertext || tag; the nonce is not embedded
// and must be supplied to decrypt out of band. When -nonce is omitted on
// encrypt, a random nonce is generated and printed.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/sivtools/aesgcmsiv"
	"github.com/sivtools/aesgcmsiv/subtle"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func usage(msg string) {
	status := exitSuccess
	if msg != "" {
		fmt.Fprintf(os.Stderr, "%s\n\n", msg)
		status = exitFailure
	}

	fmt.Fprintf(os.Stderr, "Usage: %s encrypt|decrypt|gen-nonce [options]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Encrypt or decrypt files with AES-GCM-SIV (RFC 8452)\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  -key KEYHEX       Hex-encoded key (32 or 64 hex characters)\n")
	fmt.Fprintf(os.Stderr, "  -keyfile FILE     INI file holding the hex-encoded key\n")
	fmt.Fprintf(os.Stderr, "  -profile NAME     Profile within the key file (default: %q)\n", keyFileDefaultProfile)
	fmt.Fprintf(os.Stderr, "  -nonce NONCEHEX   Hex-encoded 12-byte nonce; generated and\n")
	fmt.Fprintf(os.Stderr, "                      printed when omitted on encrypt\n")
	fmt.Fprintf(os.Stderr, "  -aad DATA         Additional authenticated data\n")
	fmt.Fprintf(os.Stderr, "  -salt SALTHEX     Treat the key material as IKM and derive the\n")
	fmt.Fprintf(os.Stderr, "                      AES key with HKDF-SHA256 and this salt\n")
	fmt.Fprintf(os.Stderr, "  -in FILE          Input file\n")
	fmt.Fprintf(os.Stderr, "  -out FILE         Output file\n")

	os.Exit(status)
}

func main() {
	if len(os.Args) < 2 {
		usage("missing command")
	}

	var err error
	switch os.Args[1] {
	case "encrypt":
		err = runEncrypt(os.Args[2:])
	case "decrypt":
		err = runDecrypt(os.Args[2:])
	case "gen-nonce":
		fmt.Println(hex.EncodeToString(aesgcmsiv.GenerateNonce()))
	case "help", "-h", "-help", "--help":
		usage("")
	default:
		usage("unknown command: " + os.Args[1])
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

// options holds the parsed command line of an encrypt or decrypt run.
type options struct {
	key, nonce, aad []byte
	in, out         string
}

func parseOptions(command string, args []string, nonceRequired bool) (*options, error) {
	f := flag.NewFlagSet(command, flag.ExitOnError)
	keyHex := f.String("key", "", "")
	keyFile := f.String("keyfile", "", "")
	profile := f.String("profile", keyFileDefaultProfile, "")
	nonceHex := f.String("nonce", "", "")
	aad := f.String("aad", "", "")
	saltHex := f.String("salt", "", "")
	in := f.String("in", "", "")
	out := f.String("out", "", "")
	f.Usage = func() { usage("") }
	f.Parse(args)

	var opts options
	var err error

	switch {
	case *keyHex != "" && *keyFile != "":
		return nil, fmt.Errorf("%s: -key and -keyfile are mutually exclusive", command)
	case *keyHex != "":
		opts.key, err = hex.DecodeString(*keyHex)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid key hex: %v", command, err)
		}
	case *keyFile != "":
		opts.key, err = loadKeyFromFile(*keyFile, *profile)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", command, err)
		}
	default:
		return nil, fmt.Errorf("%s: one of -key or -keyfile is required", command)
	}

	if *saltHex != "" {
		salt, err := hex.DecodeString(*saltHex)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid salt hex: %v", command, err)
		}
		opts.key, err = deriveKey(opts.key, salt)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", command, err)
		}
	}

	if *nonceHex != "" {
		opts.nonce, err = hex.DecodeString(*nonceHex)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid nonce hex: %v", command, err)
		}
		if len(opts.nonce) != aesgcmsiv.NonceSize {
			return nil, fmt.Errorf("%s: nonce must be exactly %d bytes", command, aesgcmsiv.NonceSize)
		}
	} else if nonceRequired {
		return nil, fmt.Errorf("%s: -nonce is required", command)
	}

	opts.aad = []byte(*aad)

	if *in == "" || *out == "" {
		return nil, fmt.Errorf("%s: -in and -out are required", command)
	}
	opts.in, opts.out = *in, *out

	return &opts, nil
}

// deriveKey turns input keying material into an AES key via HKDF-SHA256.
// IKM that is already AES-128 sized stays 16 bytes; everything else
// derives an AES-256 key.
func deriveKey(ikm, salt []byte) ([]byte, error) {
	size := uint32(aesgcmsiv.KeySize256)
	if len(ikm) == aesgcmsiv.KeySize128 {
		size = aesgcmsiv.KeySize128
	}
	return subtle.ComputeHKDF("SHA256", ikm, salt, []byte("aes-gcm-siv key"), size)
}

func runEncrypt(args []string) error {
	opts, err := parseOptions("encrypt", args, false)
	if err != nil {
		return err
	}

	if opts.nonce == nil {
		opts.nonce = aesgcmsiv.GenerateNonce()
		fmt.Printf("generated nonce: %s\n", hex.EncodeToString(opts.nonce))
	}

	plaintext, err := os.ReadFile(opts.in)
	if err != nil {
		return err
	}
	ciphertext, err := aesgcmsiv.Encrypt(opts.key, opts.nonce, plaintext, opts.aad)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, ciphertext, 0o600); err != nil {
		return err
	}
	fmt.Printf("encrypted %s -> %s\n", opts.in, opts.out)
	return nil
}

func runDecrypt(args []string) error {
	opts, err := parseOptions("decrypt", args, true)
	if err != nil {
		return err
	}

	ciphertext, err := os.ReadFile(opts.in)
	if err != nil {
		return err
	}
	plaintext, err := aesgcmsiv.Decrypt(opts.key, opts.nonce, ciphertext, opts.aad)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, plaintext, 0o600); err != nil {
		return err
	}
	fmt.Printf("decrypted %s -> %s\n", opts.in, opts.out)
	return nil
}
