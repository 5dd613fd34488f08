/*
 * // Copyright 2020 Insolar Network Ltd.
 * // All rights reserved.
 * // This material is licensed under the Insolar License version 1.0,
 * // available at https://github.com/insolar/assured-ledger/blob/master/LICENSE.md.
 */

package usersload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonParsePercs(t *testing.T) {
	d, err := parsePercsData("testdata/percs.csv")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4, 5}, d["rps"].XValues)
	require.Equal(t, []float64{3, 2, 4, 3, 1}, d["rps"].YValues)
	require.Equal(t, []float64{25, 21, 30, 24, 10}, d["p99"].YValues)
}

func TestCommonRenderPercs(t *testing.T) {
	dir := t.TempDir()
	data, err := PercsChart("testdata/percs.csv", "Response times")
	require.NoError(t, err)
	html := filepath.Join(dir, "responses.html")
	require.NoError(t, RenderEChart(data, html))
	fi, err := os.Stat(html)
	require.NoError(t, err)
	require.Greater(t, fi.Size(), int64(0))

	png, err := ResponsesChart("Response times", "testdata/percs.csv")
	require.NoError(t, err)
	pngFile := filepath.Join(dir, "nested", "responses.png")
	require.NoError(t, RenderChart(png, pngFile))
	fi, err = os.Stat(pngFile)
	require.NoError(t, err)
	require.Greater(t, fi.Size(), int64(0))
}

func TestCommonRenderErr(t *testing.T) {
	_, err := PercsChart("testdata/empty.csv", "Response times")
	require.Equal(t, errEmptyCSV, err)
	_, err = ResponsesChart("Response times", "testdata/malformed.csv")
	require.Equal(t, errMalformedCSV, err)
	_, err = PercsChart("testdata/missing.csv", "Response times")
	require.Error(t, err)
}
