/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBetweenBounds(t *testing.T) {
	w := Between(10*time.Millisecond, 12*time.Millisecond)
	for i := 0; i < 500; i++ {
		d := w()
		require.GreaterOrEqual(t, d, 10*time.Millisecond)
		require.LessOrEqual(t, d, 12*time.Millisecond)
	}
}

func TestBetweenIncludesBounds(t *testing.T) {
	w := Between(1, 2)
	seen := map[time.Duration]bool{}
	for i := 0; i < 200; i++ {
		seen[w()] = true
	}
	require.Equal(t, map[time.Duration]bool{1: true, 2: true}, seen)
}

func TestBetweenSwappedAndEqual(t *testing.T) {
	w := Between(5*time.Second, time.Second)
	for i := 0; i < 100; i++ {
		d := w()
		require.GreaterOrEqual(t, d, time.Second)
		require.LessOrEqual(t, d, 5*time.Second)
	}
	require.Equal(t, 3*time.Second, Between(3*time.Second, 3*time.Second)())
	require.Equal(t, time.Duration(0), Between(0, 0)())
	require.Equal(t, time.Minute, Constant(time.Minute)())
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, sleepCtx(ctx, time.Millisecond))
	require.True(t, sleepCtx(ctx, 0))

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	require.False(t, sleepCtx(ctx, time.Hour))
	require.Less(t, time.Since(start), time.Second)
	require.False(t, sleepCtx(ctx, 0))
}
