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

package schema

// Kind identifies which schema variant a descriptor is.
// The set is closed: consumers switch over every Kind and treat anything
// else as a programming error.
type Kind uint8

// Schema kinds.
const (
	KindInvalid Kind = iota
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindLiteral
	KindByteArray
	KindArray
	KindObject
	KindUnion
	KindIntersection
	KindURLForm
	KindMultipartForm
	KindNull
	KindAny
)

var kindNames = [...]string{
	KindInvalid:       "invalid",
	KindBoolean:       "boolean",
	KindInteger:       "integer",
	KindNumber:        "number",
	KindString:        "string",
	KindLiteral:       "literal",
	KindByteArray:     "byteArray",
	KindArray:         "array",
	KindObject:        "object",
	KindUnion:         "union",
	KindIntersection:  "intersection",
	KindURLForm:       "urlForm",
	KindMultipartForm: "multipartForm",
	KindNull:          "null",
	KindAny:           "any",
}

// String returns the lowercase name used in error messages.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return kindNames[KindInvalid]
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := KindBoolean; k <= KindAny; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

// IsObjectLike reports whether values of this kind are keyed property maps
// (object, urlForm and multipartForm).
func (k Kind) IsObjectLike() bool {
	return k == KindObject || k == KindURLForm || k == KindMultipartForm
}

// IsNumeric reports whether the kind carries numeric range constraints.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindNumber
}
