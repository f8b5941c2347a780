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

package binding

// Section identifies a decoded part of a request.
type Section int

const (
	// SectionHeaders represents HTTP headers.
	SectionHeaders Section = iota

	// SectionParams represents URL path parameters.
	SectionParams

	// SectionQuery represents URL query parameters.
	SectionQuery

	// SectionBody represents the request body.
	SectionBody
)

// Sections lists every section in validation order.
var Sections = [...]Section{SectionHeaders, SectionParams, SectionQuery, SectionBody}

// String returns the key used for the section in error responses.
func (s Section) String() string {
	switch s {
	case SectionHeaders:
		return "headers"
	case SectionParams:
		return "params"
	case SectionQuery:
		return "query"
	case SectionBody:
		return "body"
	default:
		return "unknown"
	}
}
