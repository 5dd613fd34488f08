/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"context"
	"log"
	"reflect"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

type FastHTTPClient struct {
	dump    bool
	timeout time.Duration
	fasthttp.Client
}

// NewLoggingFastHTTPClient creates new client with debug http
func NewLoggingFastHTTPClient(debug bool, timeoutSec int) *FastHTTPClient {
	return &FastHTTPClient{
		dump:    debug,
		timeout: time.Duration(timeoutSec) * time.Second,
		Client: fasthttp.Client{
			MaxConnsPerHost:           65535,
			MaxIdleConnDuration:       90 * time.Second,
			MaxIdemponentCallAttempts: 1,
		},
	}
}

// Do performs request until ctx deadline or client timeout, whichever comes first
func (m *FastHTTPClient) Do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if m.dump {
		log.Printf(RequestHeader, req.String())
	}
	d, hasDeadline := ctx.Deadline()
	var err error
	switch {
	case hasDeadline && (m.timeout <= 0 || d.Before(time.Now().Add(m.timeout))):
		err = m.Client.DoDeadline(req, resp, d)
	case m.timeout > 0:
		err = m.Client.DoTimeout(req, resp, m.timeout)
	default:
		err = m.Client.Do(req, resp)
	}
	if err != nil {
		return err
	}
	if m.dump {
		log.Printf(ResponseHeader, resp.String())
	}
	return nil
}

func UnmarshalAnyJson(d []byte, typ interface{}) (interface{}, error) {
	if typ == nil || d == nil {
		return nil, nil
	}
	t := reflect.TypeOf(typ).Elem()
	v := reflect.New(t)
	newP := v.Interface()
	if err := jsoniter.Unmarshal(d, newP); err != nil {
		return nil, err
	}
	return newP, nil
}
