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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
)

// AppLifecycleSuite tests lifecycle hooks and freezing with shared setup.
type AppLifecycleSuite struct {
	suite.Suite
	testApp *App
}

func (s *AppLifecycleSuite) SetupTest() {
	a, err := New(WithServiceName("test-suite"))
	s.Require().NoError(err)
	s.testApp = a
}

func (s *AppLifecycleSuite) TestStartHooksRunInOrder() {
	var order []int
	for i := range 3 {
		s.testApp.OnStart(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	s.Require().NoError(s.testApp.executeStartHooks(s.T().Context()))
	s.Equal([]int{0, 1, 2}, order)
}

func (s *AppLifecycleSuite) TestStartHookFailureStops() {
	errNotReady := errors.New("not ready")
	ran := false
	s.testApp.OnStart(func(context.Context) error { return errNotReady })
	s.testApp.OnStart(func(context.Context) error {
		ran = true
		return nil
	})

	err := s.testApp.executeStartHooks(s.T().Context())
	s.Require().ErrorIs(err, errNotReady)
	s.ErrorContains(err, "OnStart hook 0 failed")
	s.False(ran)
}

func (s *AppLifecycleSuite) TestShutdownHooksRunInReverse() {
	var order []string
	s.testApp.OnShutdown(func(context.Context) { order = append(order, "db") })
	s.testApp.OnShutdown(func(context.Context) { order = append(order, "cache") })

	s.testApp.executeShutdownHooks(s.T().Context())
	s.Equal([]string{"cache", "db"}, order)
}

func (s *AppLifecycleSuite) TestRegistrationAfterFirstRequestPanics() {
	s.testApp.GET("/x", ok("x"))

	resp, err := s.testApp.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close() //nolint:errcheck // Test cleanup

	s.PanicsWithValue(ErrFrozen, func() { s.testApp.OnStart(func(context.Context) error { return nil }) })
	s.PanicsWithValue(ErrFrozen, func() { s.testApp.OnShutdown(func(context.Context) {}) })
	s.PanicsWithValue(ErrFrozen, func() { s.testApp.Use(func(*Context, Next) (Result, error) { return Continue(), nil }) })
}

func TestAppLifecycleSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AppLifecycleSuite))
}
