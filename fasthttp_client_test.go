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
	"github.com/valyala/fasthttp"
)

func TestFastHttpCreateUser(t *testing.T) {
	svc := NewUsersService(0, nil)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()
	c := NewLoggingFastHTTPClient(true, 5)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(srv.URL + UsersPath)
	req.Header.SetMethod(http.MethodPost)
	req.Header.SetContentType(contentTypeJSON)
	req.SetBody(createUserBody)

	err := c.Do(context.Background(), req, resp)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	respBody, err := UnmarshalAnyJson(resp.Body(), &UsersResponse{})
	require.NoError(t, err)
	users := respBody.(*UsersResponse)
	require.Equal(t, 1, users.Total)
	require.Equal(t, []User{{ID: 1, Name: UserName, Email: UserEmail}}, users.Data)
}

func TestFastHttpCtxDeadline(t *testing.T) {
	svc := NewUsersService(300*time.Millisecond, nil)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()
	c := NewLoggingFastHTTPClient(false, 5)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(srv.URL + UsersPath)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Do(ctx, req, resp)
	require.Equal(t, fasthttp.ErrTimeout, err)
}

func TestUnmarshalAnyJsonNil(t *testing.T) {
	v, err := UnmarshalAnyJson(nil, &UsersResponse{})
	require.NoError(t, err)
	require.Nil(t, v)
	_, err = UnmarshalAnyJson([]byte("not json"), &UsersResponse{})
	require.Error(t, err)
}
