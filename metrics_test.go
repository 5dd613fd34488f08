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
	"time"

	"github.com/stretchr/testify/require"
)

func result(begin time.Time, elapsed time.Duration, res DoResult) AttackResult {
	return AttackResult{
		Begin:    begin,
		End:      begin.Add(elapsed),
		Elapsed:  elapsed,
		DoResult: res,
	}
}

func TestMetricsUpdate(t *testing.T) {
	m := NewMetrics()
	start := time.Now()
	for i := 0; i < 8; i++ {
		m.add(result(
			start.Add(time.Duration(i)*100*time.Millisecond),
			time.Duration(i+1)*10*time.Millisecond,
			DoResult{RequestLabel: createUserLabel, StatusCode: http.StatusOK},
		))
	}
	m.add(result(start.Add(800*time.Millisecond), 90*time.Millisecond, DoResult{RequestLabel: createUserLabel, StatusCode: http.StatusInternalServerError}))
	m.add(result(start.Add(800*time.Millisecond), 100*time.Millisecond, DoResult{RequestLabel: createUserLabel, Error: "connection refused"}))
	m.update()

	require.Equal(t, uint64(10), m.Requests)
	require.InDelta(t, 0.8, m.Success, 0.0001)
	require.Equal(t, map[string]int{"200": 8, "500": 1}, m.StatusCodes)
	require.Equal(t, []string{"status code: 500 Internal Server Error", "connection refused"}, m.Errors)
	require.Equal(t, 800*time.Millisecond, m.Duration)
	require.InDelta(t, 12.5, m.Rate, 0.0001)
	require.Equal(t, 100*time.Millisecond, m.Latencies.Max)
	require.Equal(t, 55*time.Millisecond, m.Latencies.Mean)
	require.LessOrEqual(t, m.Latencies.P50, m.Latencies.P95)
	require.LessOrEqual(t, m.Latencies.P95, m.Latencies.P99)
	require.LessOrEqual(t, m.Latencies.P99, m.Latencies.Max)
}

func TestMetricsEmptyUpdate(t *testing.T) {
	m := NewMetrics()
	m.update()
	require.Equal(t, float64(0), m.Rate)
	require.Equal(t, float64(0), m.successLogEntry())
}

func TestDoResultFailed(t *testing.T) {
	require.False(t, DoResult{}.Failed())
	require.False(t, DoResult{StatusCode: http.StatusFound}.Failed())
	require.True(t, DoResult{StatusCode: http.StatusBadRequest}.Failed())
	require.True(t, DoResult{Error: "boom"}.Failed())
	require.Equal(t, "boom", DoResult{Error: "boom", StatusCode: 500}.failureMessage())
}

func TestMetricsUpdateWindow(t *testing.T) {
	m := NewMetrics()
	start := time.Now()
	for i := 0; i < 4; i++ {
		// users start together, begin times are microseconds apart
		m.add(result(start.Add(time.Duration(i)*time.Microsecond), 20*time.Millisecond, DoResult{StatusCode: 200}))
	}
	m.updateWindow(time.Second)
	require.Equal(t, float64(4), m.Rate)

	single := NewMetrics()
	single.add(result(start, 20*time.Millisecond, DoResult{StatusCode: 200}))
	single.updateWindow(time.Second)
	require.Equal(t, float64(1), single.Rate)
}
