// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"strconv"
	"strings"
)

// acceptSpec represents a parsed Accept header value with quality
type acceptSpec struct {
	value   string
	quality float64
}

// negotiate returns the offer that best matches the Accept header, using
// quality values and specificity rules. Offers are full media types and the
// first offer wins ties and empty headers. Returns "" if nothing matches.
//
// Examples:
//
//	// Accept: application/json, application/yaml
//	negotiate(h, "application/json", "application/yaml")  // "application/json"
//
//	// Accept: application/yaml, application/json;q=0.8
//	negotiate(h, "application/json", "application/yaml")  // "application/yaml"
//
//	// Accept: */*
//	negotiate(h, "application/json", "application/yaml")  // "application/json"
func negotiate(accept string, offers ...string) string {
	if len(offers) == 0 {
		return ""
	}

	specs := parseAccept(accept)
	if len(specs) == 0 {
		return offers[0] // No preference, return first
	}

	bestMatch := ""
	bestQuality := -1.0
	bestSpecificity := -1

	for _, offer := range offers {
		for _, spec := range specs {
			if quality, specificity := matchMediaType(offer, spec); quality > 0 {
				// Better quality, or same quality but more specific
				if quality > bestQuality || (quality == bestQuality && specificity > bestSpecificity) {
					bestMatch = offer
					bestQuality = quality
					bestSpecificity = specificity
				}
			}
		}
	}

	return bestMatch
}

// parseAccept splits an Accept header into specs without strings.Split.
func parseAccept(header string) []acceptSpec {
	if header == "" {
		return nil
	}

	specs := make([]acceptSpec, 0, 4) // Pre-size for common case

	start := 0
	for i := 0; i <= len(header); i++ {
		if i == len(header) || header[i] == ',' {
			if i > start {
				if spec := parseAcceptPart(header[start:i]); spec.value != "" {
					specs = append(specs, spec)
				}
			}
			start = i + 1
		}
	}

	return specs
}

// parseAcceptPart parses one "type/subtype;q=0.8" element.
// Parameters other than q are ignored.
func parseAcceptPart(part string) acceptSpec {
	spec := acceptSpec{quality: 1.0}

	value, params, _ := strings.Cut(part, ";")
	spec.value = strings.TrimSpace(value)

	for params != "" {
		var param string
		param, params, _ = strings.Cut(params, ";")

		key, val, ok := strings.Cut(param, "=")
		if !ok || strings.TrimSpace(key) != "q" {
			continue
		}

		val = strings.Trim(strings.TrimSpace(val), `"`)
		if q := parseQuality(val); q >= 0 {
			spec.quality = float64(q) / 1000.0
		} else if q, err := strconv.ParseFloat(val, 64); err == nil && q >= 0 && q <= 1 {
			spec.quality = q
		}
	}

	return spec
}

// parseQuality parses a qvalue ("0", "0.8", "1.000") into thousandths.
// Returns -1 for anything RFC 9110 does not allow.
func parseQuality(s string) int {
	if len(s) == 0 || len(s) > 5 { // Max valid: "1.000" or "0.999"
		return -1
	}

	if s[0] == '1' {
		if len(s) == 1 {
			return 1000
		}
		if len(s) < 3 || s[1] != '.' {
			return -1 // Invalid like "10" or "1x"
		}
		for i := 2; i < len(s); i++ {
			if s[i] != '0' {
				return -1 // Invalid like "1.5"
			}
		}

		return 1000
	}

	if s[0] == '0' {
		if len(s) == 1 {
			return 0
		}
		if len(s) < 3 || s[1] != '.' {
			return -1 // Invalid like "01" or "0."
		}

		result := 0
		multiplier := 100
		for i := 2; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return -1
			}
			result += int(s[i]-'0') * multiplier
			multiplier /= 10
		}

		return result
	}

	return -1 // Invalid: doesn't start with 0 or 1
}

// matchMediaType checks an offer against a spec.
// Specificity: 1 for */*, 2 for type/*, 3 for an exact match.
func matchMediaType(offer string, spec acceptSpec) (quality float64, specificity int) {
	offerType, offerSubtype := splitMediaType(offer)
	specType, specSubtype := splitMediaType(spec.value)

	if specType == "*" && specSubtype == "*" {
		return spec.quality, 1 // Wildcard match
	}
	if specType == offerType && specSubtype == "*" {
		return spec.quality, 2 // Type match with subtype wildcard
	}
	if specType == offerType && specSubtype == offerSubtype {
		return spec.quality, 3 // Exact match
	}

	return 0, 0 // No match
}

// splitMediaType returns the lowercased type and subtype, without parameters.
func splitMediaType(mediaType string) (string, string) {
	mediaType, _, _ = strings.Cut(mediaType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	if typ, sub, ok := strings.Cut(mediaType, "/"); ok {
		return typ, sub
	}

	return mediaType, "*"
}
