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

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/go-ini/ini"
)

const (
	keyFileKeyID          = "KEY"
	keyFileEnvID          = "AESGCMSIV_KEY"
	keyFileDefaultProfile = "default"
)

// loadKeyFromFile reads a hex-encoded key from the named profile of an
// INI key file, e.g.
//
//	[default]
//	KEY = 01000000000000000000000000000000
//
// The AESGCMSIV_KEY environment variable, when set, takes precedence over
// the file. A profile without a KEY entry falls back to the default
// profile.
func loadKeyFromFile(path, profile string) ([]byte, error) {
	if v, ok := os.LookupEnv(keyFileEnvID); ok {
		return decodeKeyHex(v)
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("keyfile: %v", err)
	}

	section := cfg.Section(profile)
	if !section.HasKey(keyFileKeyID) {
		if profile == keyFileDefaultProfile {
			return nil, fmt.Errorf("keyfile: no %s entry in profile %q", keyFileKeyID, profile)
		}
		section = cfg.Section(keyFileDefaultProfile)
		if !section.HasKey(keyFileKeyID) {
			return nil, fmt.Errorf("keyfile: no %s entry in profile %q or %q", keyFileKeyID, profile, keyFileDefaultProfile)
		}
	}
	return decodeKeyHex(section.Key(keyFileKeyID).Value())
}

func decodeKeyHex(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("keyfile: invalid key hex: %v", err)
	}
	return key, nil
}
