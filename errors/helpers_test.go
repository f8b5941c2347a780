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

package errors

type testError struct {
	message string
	code    string
	status  int
	details any
}

func (e *testError) Error() string { return e.message }

type codedError struct{ *testError }

func (e codedError) Code() string { return e.code }

type statusedError struct{ *testError }

func (e statusedError) HTTPStatus() int { return e.status }

type fullError struct{ *testError }

func (e fullError) Code() string    { return e.code }
func (e fullError) HTTPStatus() int { return e.status }
func (e fullError) Details() any    { return e.details }
