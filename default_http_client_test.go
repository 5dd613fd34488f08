/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrettyPrintJsonBody(t *testing.T) {
	head, body := prettyPrintJsonBody([]byte("POST /users HTTP/1.1\r\nHost: localhost\r\n\r\n" + string(createUserBody)))
	require.Equal(t, "POST /users HTTP/1.1\r\nHost: localhost", head)
	require.JSONEq(t, string(createUserBody), body)
	require.Contains(t, body, "\n    \"")

	head, body = prettyPrintJsonBody([]byte("HTTP/1.1 500\r\n\r\nnot json"))
	require.Equal(t, "HTTP/1.1 500", head)
	require.Equal(t, "not json", body)

	head, body = prettyPrintJsonBody([]byte("GET / HTTP/1.1"))
	require.Equal(t, "GET / HTTP/1.1", head)
	require.Empty(t, body)
}

func TestBodyIsJson(t *testing.T) {
	h := http.Header{}
	require.False(t, bodyIsJson(h))
	h.Set("Content-Type", "application/json; charset=utf-8")
	require.True(t, bodyIsJson(h))
}
