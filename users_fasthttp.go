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
	"time"

	"github.com/valyala/fasthttp"
)

// FastHTTPCreateUserAttack same as CreateUserAttack over fasthttp client
type FastHTTPCreateUserAttack struct {
	*Runner
	url      string
	waitTime WaitTimeFunc
}

func (a *FastHTTPCreateUserAttack) Clone(r *Runner) Attack {
	return &FastHTTPCreateUserAttack{Runner: r}
}

func (a *FastHTTPCreateUserAttack) Setup(c RunnerConfig) error {
	a.url = usersURL(c.TargetUrl)
	a.waitTime = Between(UserWaitMin, UserWaitMax)
	return nil
}

func (a *FastHTTPCreateUserAttack) Do(ctx context.Context) DoResult {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(a.url)
	req.Header.SetMethod(http.MethodPost)
	req.Header.SetContentType(contentTypeJSON)
	req.SetBody(createUserBody)
	if err := a.FastHTTPClient.Do(ctx, req, resp); err != nil {
		return DoResult{RequestLabel: createUserLabel, Error: err.Error()}
	}
	return DoResult{
		RequestLabel: createUserLabel,
		StatusCode:   resp.StatusCode(),
		BytesIn:      int64(len(createUserBody)),
		BytesOut:     int64(len(resp.Body())),
	}
}

func (a *FastHTTPCreateUserAttack) RequestLabel() string {
	return createUserLabel
}

func (a *FastHTTPCreateUserAttack) WaitTime() time.Duration {
	return a.waitTime()
}

func (a *FastHTTPCreateUserAttack) Teardown() error {
	return nil
}
