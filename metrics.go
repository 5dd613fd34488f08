/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"strconv"
	"time"

	"github.com/streadway/quantile"
)

// Metrics aggregated results of one tick or one request label
type Metrics struct {
	Latencies LatencyMetrics `json:"latencies"`
	// Earliest and Latest request begin times
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
	// End latest request end time
	End      time.Time     `json:"End"`
	Duration time.Duration `json:"duration"`
	// Wait time between last begin and last end
	Wait     time.Duration `json:"wait"`
	Requests uint64        `json:"requests"`
	// TargetRate rps demanded by scheduler, zero in users mode
	TargetRate float64 `json:"target_rate"`
	Rate       float64 `json:"rate"`
	// Success ratio of requests without error and with status < 400
	Success     float64        `json:"success"`
	StatusCodes map[string]int `json:"status_codes"`
	// Errors unique failure messages in order of appearance
	Errors []string `json:"Errors"`

	errors      map[string]struct{}
	errorsCount int64
	success     int64
	latencies   *quantile.Estimator
}

type LatencyMetrics struct {
	Total time.Duration `json:"total"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"50th"`
	P95   time.Duration `json:"95th"`
	P99   time.Duration `json:"99th"`
	Max   time.Duration `json:"max"`
}

func NewMetrics() *Metrics {
	m := &Metrics{}
	m.init()
	return m
}

func (m Metrics) successLogEntry() float64 {
	s := m.Success * 100.0
	if s < 0 {
		return 0
	}
	return s
}

func (m *Metrics) add(r AttackResult) {
	m.Requests++
	// StatusCode is optional
	if r.DoResult.StatusCode > 0 {
		m.StatusCodes[strconv.Itoa(r.DoResult.StatusCode)]++
	}
	m.Latencies.Total += r.Elapsed

	m.latencies.Add(float64(r.Elapsed))

	if m.Earliest.IsZero() || m.Earliest.After(r.Begin) {
		m.Earliest = r.Begin
	}

	if r.Begin.After(m.Latest) {
		m.Latest = r.Begin
	}

	if end := r.End; end.After(m.End) {
		m.End = end
	}

	if r.Elapsed > m.Latencies.Max {
		m.Latencies.Max = r.Elapsed
	}

	if r.DoResult.Failed() {
		msg := r.DoResult.failureMessage()
		if _, ok := m.errors[msg]; !ok {
			m.errors[msg] = struct{}{}
			m.Errors = append(m.Errors, msg)
		}
		m.errorsCount++
		return
	}
	m.success++
}

// update computes summary values, called once per tick
func (m *Metrics) update() {
	if m.Requests == 0 {
		return
	}
	fRequests := float64(m.Requests)
	m.Duration = m.Latest.Sub(m.Earliest)
	if secs := m.Duration.Seconds(); secs > 0 {
		m.Rate = fRequests / secs
	}
	m.Wait = m.End.Sub(m.Latest)
	m.Success = float64(m.success) / fRequests
	m.Latencies.Mean = time.Duration(float64(m.Latencies.Total) / fRequests)
	m.Latencies.P50 = time.Duration(m.latencies.Get(0.50))
	m.Latencies.P95 = time.Duration(m.latencies.Get(0.95))
	m.Latencies.P99 = time.Duration(m.latencies.Get(0.99))
}

// updateWindow computes summary values with rate over a fixed window
func (m *Metrics) updateWindow(window time.Duration) {
	m.update()
	if window > 0 {
		m.Rate = float64(m.Requests) / window.Seconds()
	}
}

func (m *Metrics) init() {
	if m.latencies == nil {
		m.StatusCodes = map[string]int{}
		m.errors = map[string]struct{}{}
		m.latencies = quantile.New(
			quantile.Known(0.50, 0.01),
			quantile.Known(0.95, 0.001),
			quantile.Known(0.99, 0.0005),
		)
	}
}
