/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const expectedUserBody = `{"name": "blyat22", "email": "cyka22"}`

func usersRunnerCfg(target string) *RunnerConfig {
	return &RunnerConfig{
		TargetUrl:       target,
		Name:            "create_user",
		SystemMode:      UserSystem,
		Attackers:       1,
		AttackerTimeout: 2,
		TestTimeSec:     5,
	}
}

// newUsersTarget users service behind httptest server
func newUsersTarget(t *testing.T) (*UsersService, *httptest.Server) {
	svc := NewUsersService(0, nil)
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return svc, srv
}

func requireCreateUserRequest(t *testing.T, req ReceivedRequest) {
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/users", req.Path)
	require.Equal(t, "application/json", req.ContentType)
	require.JSONEq(t, expectedUserBody, string(req.Body))
}

func TestCreateUserBodyIsLiteral(t *testing.T) {
	require.Equal(t, `{"name":"blyat22","email":"cyka22"}`, string(createUserBody))
}

func TestCreateUserAttackRegistered(t *testing.T) {
	require.IsType(t, &CreateUserAttack{}, AttackerFromString("create_user"))
	require.IsType(t, &FastHTTPCreateUserAttack{}, AttackerFromString("create_user_fasthttp"))
	require.Nil(t, AttackerFromString("unknown"))
}

func TestCreateUserAttackOnce(t *testing.T) {
	svc, srv := newUsersTarget(t)
	r := NewRunner(usersRunnerCfg(srv.URL), &CreateUserAttack{}, nil)

	res := r.attackers[0].Do(context.Background())
	require.False(t, res.Failed())
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "POST /users", res.RequestLabel)
	require.Equal(t, int64(len(createUserBody)), res.BytesIn)
	require.Greater(t, res.BytesOut, int64(0))

	received := svc.Received()
	require.Len(t, received, 1)
	requireCreateUserRequest(t, received[0])
	require.Equal(t, 1, svc.Users())
}

func TestCreateUserAttackNTimes(t *testing.T) {
	svc, srv := newUsersTarget(t)
	// trailing slash is not doubled
	r := NewRunner(usersRunnerCfg(srv.URL+"/"), &CreateUserAttack{}, nil)

	n := 20
	for i := 0; i < n; i++ {
		res := r.attackers[0].Do(context.Background())
		require.Equal(t, http.StatusOK, res.StatusCode)
	}
	received := svc.Received()
	require.Len(t, received, n)
	for _, req := range received {
		requireCreateUserRequest(t, req)
		require.Equal(t, received[0], req)
	}
	require.Equal(t, n, svc.Users())
}

func TestFastHTTPCreateUserAttackNTimes(t *testing.T) {
	svc, srv := newUsersTarget(t)
	r := NewRunner(usersRunnerCfg(srv.URL), &FastHTTPCreateUserAttack{}, nil)

	n := 5
	for i := 0; i < n; i++ {
		res := r.attackers[0].Do(context.Background())
		require.Equal(t, "", res.Error)
		require.Equal(t, http.StatusOK, res.StatusCode)
	}
	received := svc.Received()
	require.Len(t, received, n)
	for _, req := range received {
		requireCreateUserRequest(t, req)
	}
}

func TestCreateUserAttackFailureIsNotRetried(t *testing.T) {
	svc, srv := newUsersTarget(t)
	svc.SetFailStatus(http.StatusServiceUnavailable)
	r := NewRunner(usersRunnerCfg(srv.URL), &CreateUserAttack{}, nil)

	res := r.attackers[0].Do(context.Background())
	require.True(t, res.Failed())
	require.Equal(t, "", res.Error)
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	require.Len(t, svc.Received(), 1)
	require.Equal(t, 0, svc.Users())
}

func TestCreateUserAttackConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	for _, atk := range []Attack{&CreateUserAttack{}, &FastHTTPCreateUserAttack{}} {
		r := NewRunner(usersRunnerCfg(target), atk, nil)
		res := r.attackers[0].Do(context.Background())
		require.True(t, res.Failed())
		require.NotEmpty(t, res.Error)
		require.Equal(t, 0, res.StatusCode)
	}
}

func TestCreateUserAttackWaitTime(t *testing.T) {
	r := NewRunner(usersRunnerCfg("http://localhost"), &CreateUserAttack{}, nil)
	w, ok := r.attackers[0].(Waiter)
	require.True(t, ok)

	seen := make(map[time.Duration]struct{})
	for i := 0; i < 1000; i++ {
		d := w.WaitTime()
		require.GreaterOrEqual(t, d, time.Second)
		require.LessOrEqual(t, d, 5*time.Second)
		seen[d] = struct{}{}
	}
	require.Greater(t, len(seen), 1)
}
