package usersload

import (
	"context"
	"sync/atomic"
	"time"
)

// Attack must be implemented by a service client.
type Attack interface {
	// Setup should establish the connection to the service
	// It may want to access the Config of the Runner.
	Setup(c RunnerConfig) error
	// Do performs one request and is executed in a separate goroutine.
	// The context is used to cancel the request on timeout.
	Do(ctx context.Context) DoResult
	// Teardown can be used to close the connection to the service
	Teardown() error
	// Clone should return a fresh new Attack
	// Make sure the new Attack has values for shared struct fields initialized at Setup.
	Clone(r *Runner) Attack
}

// RequestLabeler names requests of an attack, timed out results carry this label
type RequestLabeler interface {
	RequestLabel() string
}

func requestLabel(a Attack, r *Runner) string {
	if l, ok := a.(RequestLabeler); ok {
		return l.RequestLabel()
	}
	return r.Name
}

// attack receives schedule signal and attacks target calling Do() method, returning AttackResult with timings
func attack(a Attack, r *Runner) {
	for {
		select {
		case <-r.TimeoutCtx.Done():
			return
		case token := <-r.next:
			res, ok := doAttack(a, r, token)
			if !ok || !r.sendResult(res) {
				return
			}
		}
	}
}

// asyncAttack fires every received token in a new goroutine
func asyncAttack(a Attack, r *Runner) {
	for {
		select {
		case <-r.TimeoutCtx.Done():
			return
		case token := <-r.next:
			go func(token attackToken) {
				if res, ok := doAttack(a, r, token); ok {
					r.sendResult(res)
				}
			}(token)
		}
	}
}

// userAttack loops as a simulated user: attack, then wait, until the test is over
func userAttack(a Attack, r *Runner, waitTime WaitTimeFunc) {
	active := atomic.AddInt64(&r.activeUsers, 1)
	r.reportActiveUsers(active)
	defer func() {
		r.reportActiveUsers(atomic.AddInt64(&r.activeUsers, -1))
	}()
	for {
		res, ok := doAttack(a, r, attackToken{})
		if !ok || !r.sendResult(res) {
			return
		}
		if !sleepCtx(r.TimeoutCtx, waitTime()) {
			return
		}
	}
}

// doAttack calls Do with attacker timeout, ok is false when the test ended before Do returned.
// Zero token means a user request, it is filed under the tick in which it ended
func doAttack(a Attack, r *Runner, token attackToken) (AttackResult, bool) {
	if r.TimeoutCtx.Err() != nil {
		return AttackResult{}, false
	}
	ctx, cancel := context.WithTimeout(r.TimeoutCtx, time.Duration(r.Cfg.AttackerTimeout)*time.Second)
	defer cancel()

	done := make(chan DoResult, 1)
	tStart := time.Now()
	go func() {
		done <- a.Do(ctx)
	}()
	var doResult DoResult
	select {
	case doResult = <-done:
	case <-ctx.Done():
		doResult = DoResult{RequestLabel: requestLabel(a, r), Error: errAttackDoTimedOut}
	}
	// requests cut by the end of the test are not reported
	if r.TimeoutCtx.Err() != nil {
		return AttackResult{}, false
	}
	tEnd := time.Now()
	if token == (attackToken{}) {
		token = r.userToken()
	}
	return AttackResult{
		AttackToken: token,
		Begin:       tStart,
		End:         tEnd,
		Elapsed:     tEnd.Sub(tStart),
		DoResult:    doResult,
	}, true
}
