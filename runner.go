/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/ratelimit"
)

const (
	DefaultResultsQueueCapacity = 100_000
	MetricsLogFile              = "requests_%s_%s_%d.csv"
	PercsLogFile                = "percs_%s_%s_%d.csv"
	ReportGraphFile             = "percs_%s_%s_%d.html"
	ReportPNGFile               = "percs_%s_%s_%d.png"
)

var (
	ResultsCsvHeader = []string{"RequestLabel", "BeginTimeNano", "EndTimeNano", "Elapsed", "StatusCode", "Error"}
	PercsCsvHeader   = []string{"RequestLabel", "Tick", "RPS", "P50", "P95", "P99"}
)

// Controlled struct for adding test vars
type Controlled struct {
	Sleep int64
}

type TickMetrics struct {
	Samples  []AttackResult
	Metrics  *Metrics
	Reported bool
}

type attackToken struct {
	TargetRPS int
	Step      int
	Tick      int
}

func (a attackToken) String() string {
	return fmt.Sprintf("targetRPS: %d, step: %d, tick: %d", a.TargetRPS, a.Step, a.Tick)
}

// Runner provides test context for attacking target with constant amount of runners with a schedule
type Runner struct {
	// Name of a runner
	Name string
	// Cfg runner config
	Cfg *RunnerConfig
	// prototype from which all attackers cloned
	attackerPrototype Attack
	// target RPS for step, changed every step
	targetRPS int
	// metrics for every received tick (completed requests)
	receivedTickMetricsMu *sync.Mutex
	receivedTickMetrics   map[int]*TickMetrics
	// ratelimiter for keeping constant rps inside test step
	rl ratelimit.Limiter
	// TimeoutCtx test timeout ctx
	TimeoutCtx context.Context
	// test cancel func
	CancelFunc context.CancelFunc
	// next schedule chan to signal to attack
	next chan attackToken
	// attackers cloned for a prototype
	attackers []Attack
	// users currently looping in UserSystem mode
	activeUsers int64
	// test start, ticks in UserSystem mode are seconds since start
	startTime time.Time
	// problems found by Validate
	cfgErrors []string

	// inner Results chan
	results chan AttackResult
	// outer Results chan, tick samples sent in batches when ReportOptions.Stream is on
	OutResults chan []AttackResult
	// uniq error messages
	uniqErrors map[string]int
	// Failed means there some errors in test
	Failed int64
	// Report data
	Report *Report
	// data used to control attackers in test
	controlled Controlled
	// TestData data shared between attackers during test
	TestData       interface{}
	HTTPClient     *http.Client
	FastHTTPClient *FastHTTPClient
	PromReporter   *PromReporter
	L              *Logger
}

// NewRunner creates new runner with constant amount of attackers by RunnerConfig
func NewRunner(cfg *RunnerConfig, a Attack, data interface{}) *Runner {
	runCfg := &RunnerConfig{}
	if err := copier.Copy(runCfg, cfg); err != nil {
		runCfg = cfg
	}
	runCfg.DefaultCfgValues()
	r := &Runner{
		Name:                  runCfg.Name,
		Cfg:                   runCfg,
		attackerPrototype:     a,
		targetRPS:             runCfg.StartRPS,
		next:                  make(chan attackToken),
		attackers:             make([]Attack, 0),
		cfgErrors:             runCfg.Validate(),
		results:               make(chan AttackResult, DefaultResultsQueueCapacity),
		OutResults:            make(chan []AttackResult, DefaultResultsQueueCapacity),
		receivedTickMetricsMu: &sync.Mutex{},
		receivedTickMetrics:   make(map[int]*TickMetrics),
		uniqErrors:            make(map[string]int),
		controlled:            Controlled{},
		TestData:              data,
		HTTPClient:            NewLoggingHTTPClient(runCfg.DumpTransport, runCfg.AttackerTimeout),
		FastHTTPClient:        NewLoggingFastHTTPClient(runCfg.DumpTransport, runCfg.AttackerTimeout),
		L:                     NewLogger(runCfg).With("runner", runCfg.Name),
	}
	if len(r.cfgErrors) > 0 {
		return r
	}
	if runCfg.StartRPS > 0 {
		r.rl = ratelimit.New(runCfg.StartRPS)
	}
	for i := 0; i < runCfg.Attackers; i++ {
		a := r.attackerPrototype.Clone(r)
		if err := a.Setup(*r.Cfg); err != nil {
			r.L.Fatalf("%s: %v", errAttackerSetup, err)
		}
		r.attackers = append(r.attackers, a)
	}
	if runCfg.ReportOptions.CSV {
		r.Report = NewReport(r.Cfg)
	}
	if runCfg.Prometheus != nil && runCfg.Prometheus.Enable {
		r.PromReporter = &PromReporter{}
		startMetricsServer(runCfg.Prometheus.Port, r.L)
	}
	return r
}

// Run runs the test
func (r *Runner) Run(serverCtx context.Context) (float64, error) {
	if len(r.cfgErrors) > 0 {
		return 0, fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(r.cfgErrors, ", "))
	}
	if r.Cfg.WaitBeforeSec > 0 {
		r.L.Infof("waiting for %d seconds before start", r.Cfg.WaitBeforeSec)
		time.Sleep(time.Duration(r.Cfg.WaitBeforeSec) * time.Second)
	}
	r.L.Infof("runner started, mode: %s", r.Cfg.SystemMode)
	if serverCtx == nil {
		serverCtx = context.Background()
	}
	r.startTime = time.Now()
	r.TimeoutCtx, r.CancelFunc = context.WithTimeout(serverCtx, time.Duration(r.Cfg.TestTimeSec)*time.Second)
	switch r.Cfg.SystemMode {
	case OpenWorldSystem:
		for _, attacker := range r.attackers {
			go asyncAttack(attacker, r)
		}
		r.schedule()
	case PrivateSystem:
		for atkIdx, attacker := range r.attackers {
			r.L.Debugf("starting attacker: %d", atkIdx)
			go attack(attacker, r)
		}
		r.schedule()
	case UserSystem:
		r.spawnUsers()
		r.reportUserTicks()
	}
	stopSignals := r.handleShutdownSignal()
	collected := r.collectResults()
	<-r.TimeoutCtx.Done()
	<-collected
	r.CancelFunc()
	stopSignals()
	r.flushTicks()
	close(r.OutResults)
	for _, a := range r.attackers {
		if err := a.Teardown(); err != nil {
			r.L.Errorf("attacker teardown: %v", err)
		}
	}
	r.L.Infof("runner exited")
	maxRPS := r.maxRPS()
	r.L.Infof("max rps: %.2f", maxRPS)
	if r.Report != nil {
		r.Report.flushLogs()
		r.Report.plot()
	}
	return maxRPS, nil
}

// schedule creates schedule plan for a test
func (r *Runner) schedule() {
	go func() {
		var (
			currentStep         = 1
			currentTick         = 1
			ticksInStep         = r.Cfg.StepDurationSec
			totalRequestsFired  = 0
			requestsFiredInTick = 0
		)
		for {
			r.rl.Take()
			select {
			case <-r.TimeoutCtx.Done():
				r.L.Infof("total requests fired: %d", totalRequestsFired)
				return
			case r.next <- attackToken{
				TargetRPS: r.targetRPS,
				Step:      currentStep,
				Tick:      currentTick,
			}:
			}
			totalRequestsFired++
			requestsFiredInTick++
			if requestsFiredInTick == r.targetRPS {
				currentTick += 1
				requestsFiredInTick = 0
				r.L.Debugf("current active goroutines: %d", runtime.NumGoroutine())
				if ticksInStep > 0 && r.Cfg.StepRPS > 0 && currentTick%ticksInStep == 0 {
					r.targetRPS += r.Cfg.StepRPS
					r.rl = ratelimit.New(r.targetRPS)
					currentStep += 1
					r.L.Infof("next step: step -> %d, rps -> %d", currentStep, r.targetRPS)
				}
			}
		}
	}()
}

// spawnUsers starts every attacker as a simulated user, SpawnRate users per second
func (r *Runner) spawnUsers() {
	go func() {
		var spawnRL ratelimit.Limiter
		if r.Cfg.SpawnRate > 0 {
			spawnRL = ratelimit.New(r.Cfg.SpawnRate)
		}
		for i, a := range r.attackers {
			if spawnRL != nil {
				spawnRL.Take()
			}
			if r.TimeoutCtx.Err() != nil {
				return
			}
			r.L.Debugf("spawning user: %d", i)
			go userAttack(a, r, r.waitTimeFor(a))
		}
		r.L.Infof("all users spawned: %d", len(r.attackers))
	}()
}

// waitTimeFor prefers attack own pacing over config bounds
func (r *Runner) waitTimeFor(a Attack) WaitTimeFunc {
	if w, ok := a.(Waiter); ok {
		return w.WaitTime
	}
	return Between(r.Cfg.WaitTimeMin, r.Cfg.WaitTimeMax)
}

func (r *Runner) userToken() attackToken {
	return attackToken{
		Step: 1,
		Tick: r.currentTick(),
	}
}

// currentTick one second ticks since start, first tick is 1
func (r *Runner) currentTick() int {
	return int(time.Since(r.startTime)/time.Second) + 1
}

func (r *Runner) sendResult(res AttackResult) bool {
	select {
	case r.results <- res:
		return true
	case <-r.TimeoutCtx.Done():
		return false
	}
}

// collectResults collects attackers Results and writes them to one of report options
func (r *Runner) collectResults() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		var (
			totalRequestsStored = 0
		)
		for {
			select {
			case <-r.TimeoutCtx.Done():
				r.L.Infof("total requests stored: %d", totalRequestsStored)
				r.printErrors()
				return
			case res := <-r.results:
				r.L.Debugf("received result: %s", res)
				totalRequestsStored++

				errorForReport := "ok"
				if res.DoResult.Failed() {
					errorForReport = res.DoResult.failureMessage()
					r.uniqErrors[errorForReport] += 1
					r.L.Debugf("attacker error: %s", errorForReport)
				}

				if r.Report != nil {
					r.Report.writeResultEntry(res, errorForReport)
				}
				if r.PromReporter != nil {
					r.PromReporter.reportResult(res)
				}
				r.processTickMetrics(res)
			}
		}
	}()
	return done
}

// processTickMetrics add attack result to tick metrics, if it's last result in tick then report
func (r *Runner) processTickMetrics(res AttackResult) {
	r.receivedTickMetricsMu.Lock()
	defer r.receivedTickMetricsMu.Unlock()
	tick := res.AttackToken.Tick
	// user ticks are closed by time, late results go to the next open tick
	if res.AttackToken.TargetRPS == 0 {
		for tm, ok := r.receivedTickMetrics[tick]; ok && tm.Reported; tm, ok = r.receivedTickMetrics[tick] {
			tick++
		}
		res.AttackToken.Tick = tick
	}
	// if no such tick, create new TickMetrics
	if _, ok := r.receivedTickMetrics[tick]; !ok {
		r.receivedTickMetrics[tick] = &TickMetrics{
			Samples: make([]AttackResult, 0),
			Metrics: NewMetrics(),
		}
	}
	currentTickMetrics := r.receivedTickMetrics[tick]
	currentTickMetrics.Samples = append(currentTickMetrics.Samples, res)
	if res.AttackToken.TargetRPS > 0 && len(currentTickMetrics.Samples) == res.AttackToken.TargetRPS {
		r.reportTick(res.AttackToken, currentTickMetrics)
	}
}

// reportUserTicks reports user ticks one second after they elapsed, results still queued get there in time
func (r *Runner) reportUserTicks() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-r.TimeoutCtx.Done():
				return
			case <-ticker.C:
				r.closeUserTicks(r.currentTick() - 1)
			}
		}
	}()
}

// closeUserTicks reports every unreported tick before the given one
func (r *Runner) closeUserTicks(before int) {
	r.receivedTickMetricsMu.Lock()
	defer r.receivedTickMetricsMu.Unlock()
	for _, tick := range r.sortedTicks() {
		if tick >= before {
			break
		}
		if tm := r.receivedTickMetrics[tick]; !tm.Reported {
			r.reportTick(attackToken{Step: 1, Tick: tick}, tm)
		}
	}
}

// flushTicks reports ticks which are still open when the test ends
func (r *Runner) flushTicks() {
	r.receivedTickMetricsMu.Lock()
	defer r.receivedTickMetricsMu.Unlock()
	if r.Cfg.SystemMode != UserSystem {
		return
	}
	for _, tick := range r.sortedTicks() {
		if tm := r.receivedTickMetrics[tick]; !tm.Reported && len(tm.Samples) > 0 {
			r.reportTick(attackToken{Step: 1, Tick: tick}, tm)
		}
	}
}

// sortedTicks must be called with receivedTickMetricsMu held
func (r *Runner) sortedTicks() []int {
	ticks := make([]int, 0, len(r.receivedTickMetrics))
	for tick := range r.receivedTickMetrics {
		ticks = append(ticks, tick)
	}
	sort.Ints(ticks)
	return ticks
}

// reportTick computes tick metrics and reports them, must be called with receivedTickMetricsMu held
func (r *Runner) reportTick(token attackToken, tm *TickMetrics) {
	if r.Cfg.ReportOptions.Stream {
		select {
		case r.OutResults <- tm.Samples:
		default:
			r.L.Errorf("results stream is full, tick %d samples dropped", token.Tick)
		}
	}
	tm.Metrics.TargetRate = float64(token.TargetRPS)
	for _, s := range tm.Samples {
		tm.Metrics.add(s)
	}
	// user ticks are fixed one second windows, users start together so begin times say nothing about rate
	if token.TargetRPS == 0 {
		tm.Metrics.updateWindow(time.Second)
	} else {
		tm.Metrics.update()
	}
	if tm.Metrics.Success < r.Cfg.SuccessRatio {
		r.L.Errorf("success ratio is too low: [ %.2f < %.2f ]", tm.Metrics.Success, r.Cfg.SuccessRatio)
		atomic.AddInt64(&r.Failed, 1)
		r.CancelFunc()
	}
	r.L.Infof(
		"step: %d, tick: %d, rate [%.4f -> %v], perc: 50 [%v] 95 [%v] 99 [%v], # requests [%d], # users [%d], %% success [%.2f]",
		token.Step,
		token.Tick,
		tm.Metrics.Rate,
		token.TargetRPS,
		tm.Metrics.Latencies.P50,
		tm.Metrics.Latencies.P95,
		tm.Metrics.Latencies.P99,
		tm.Metrics.Requests,
		atomic.LoadInt64(&r.activeUsers),
		tm.Metrics.successLogEntry(),
	)
	if r.Report != nil && len(tm.Samples) > 0 {
		r.Report.writePercentilesEntry(tm.Samples[0].DoResult.RequestLabel, token.Tick, tm.Metrics)
	}
	if r.PromReporter != nil {
		r.PromReporter.reportTick(tm)
	}
	tm.Reported = true
}

func (r *Runner) reportActiveUsers(n int64) {
	if r.PromReporter != nil {
		r.PromReporter.reportActiveUsers(n)
	}
}

// printErrors print uniq errors
func (r *Runner) printErrors() {
	r.L.Infof("Uniq errors:")
	for e, count := range r.uniqErrors {
		r.L.Infof("error: %s, count: %d", e, count)
	}
}

// maxRPS calculate max rps for test among ticks
func (r *Runner) maxRPS() float64 {
	r.receivedTickMetricsMu.Lock()
	defer r.receivedTickMetricsMu.Unlock()
	rates := make([]float64, 0)
	for _, m := range r.receivedTickMetrics {
		if m.Reported {
			rates = append(rates, m.Metrics.Rate)
		}
	}
	return MaxRPS(rates)
}
