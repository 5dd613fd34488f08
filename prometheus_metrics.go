/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promTickSuccessRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "usersload_tick_success_ratio",
		Help: "Success requests ratio",
	})
	promTickP50 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "usersload_tick_p50",
		Help: "Response time 50 Percentile",
	})
	promTickP95 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "usersload_tick_p95",
		Help: "Response time 95 Percentile",
	})
	promTickP99 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "usersload_tick_p99",
		Help: "Response time 99 Percentile",
	})
	promTickMax = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "usersload_tick_max",
		Help: "Response time MAX",
	})
	promRPS = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "usersload_tick_rps",
		Help: "Requests per second rate",
	})
	promActiveUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "usersload_active_users",
		Help: "Simulated users currently running",
	})
	promRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "usersload_requests_total",
		Help: "Requests by label, status code and result",
	}, []string{"label", "code", "result"})
)

type PromReporter struct{}

func (m *PromReporter) reportTick(tm *TickMetrics) {
	promTickP50.Set(float64(tm.Metrics.Latencies.P50.Milliseconds()))
	promTickP95.Set(float64(tm.Metrics.Latencies.P95.Milliseconds()))
	promTickP99.Set(float64(tm.Metrics.Latencies.P99.Milliseconds()))
	promTickMax.Set(float64(tm.Metrics.Latencies.Max.Milliseconds()))
	promTickSuccessRatio.Set(tm.Metrics.Success)
	promRPS.Set(tm.Metrics.Rate)
}

func (m *PromReporter) reportResult(res AttackResult) {
	result := "ok"
	if res.DoResult.Failed() {
		result = "failed"
	}
	promRequests.WithLabelValues(
		res.DoResult.RequestLabel,
		strconv.Itoa(res.DoResult.StatusCode),
		result,
	).Inc()
}

func (m *PromReporter) reportActiveUsers(n int64) {
	promActiveUsers.Set(float64(n))
}
