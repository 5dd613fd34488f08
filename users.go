/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	UsersPath   = "/users"
	UserName    = "blyat22"
	UserEmail   = "cyka22"
	UserWaitMin = 1 * time.Second
	UserWaitMax = 5 * time.Second

	createUserLabel = http.MethodPost + " " + UsersPath
	contentTypeJSON = "application/json"
)

// UserPayload body of a create user request
type UserPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// createUserBody is the same for every request
var createUserBody = mustMarshal(UserPayload{Name: UserName, Email: UserEmail})

func mustMarshal(v interface{}) []byte {
	b, err := jsoniter.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func init() {
	RegisterAttacker("create_user", &CreateUserAttack{})
	RegisterAttacker("create_user_fasthttp", &FastHTTPCreateUserAttack{})
}

func usersURL(targetURL string) string {
	return strings.TrimRight(targetURL, "/") + UsersPath
}

// CreateUserAttack simulated user creating the same user on every iteration, waits 1-5s in between.
// Failures are reported as is and never retried.
type CreateUserAttack struct {
	*Runner
	url      string
	waitTime WaitTimeFunc
}

func (a *CreateUserAttack) Clone(r *Runner) Attack {
	return &CreateUserAttack{Runner: r}
}

func (a *CreateUserAttack) Setup(c RunnerConfig) error {
	a.url = usersURL(c.TargetUrl)
	a.waitTime = Between(UserWaitMin, UserWaitMax)
	return nil
}

func (a *CreateUserAttack) Do(ctx context.Context) DoResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(createUserBody))
	if err != nil {
		return DoResult{RequestLabel: createUserLabel, Error: err.Error()}
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	res, err := a.HTTPClient.Do(req)
	if err != nil {
		return DoResult{RequestLabel: createUserLabel, Error: err.Error()}
	}
	defer res.Body.Close()
	n, err := io.Copy(io.Discard, res.Body)
	if err != nil {
		return DoResult{
			RequestLabel: createUserLabel,
			Error:        err.Error(),
			StatusCode:   res.StatusCode,
		}
	}
	return DoResult{
		RequestLabel: createUserLabel,
		StatusCode:   res.StatusCode,
		BytesIn:      int64(len(createUserBody)),
		BytesOut:     n,
	}
}

func (a *CreateUserAttack) RequestLabel() string {
	return createUserLabel
}

func (a *CreateUserAttack) WaitTime() time.Duration {
	return a.waitTime()
}

func (a *CreateUserAttack) Teardown() error {
	a.HTTPClient.CloseIdleConnections()
	return nil
}
