package influx

import (
	"github.com/openziti/tachyon/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPointsFor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receiver_0.0.0.0-9999_123")
	require.NoError(t, os.MkdirAll(path, os.ModePerm))

	mid := &util.MetricsId{Id: "tachyon.1", Values: map[string]string{"addr": "0.0.0.0:9999"}}
	require.NoError(t, util.WriteMetricsId(mid.Id, path, mid.Values))

	now := time.Now()
	samples := []*util.Sample{{Ts: now, V: 1}, {Ts: now.Add(time.Second), V: 2}}
	for _, dataset := range datasets {
		require.NoError(t, util.WriteSamples(dataset, path, samples))
	}
	require.NoError(t, util.WriteTallies("peers", path, []*util.Tally{{Name: "127.0.0.1:5000", V: 3}}))

	points, err := pointsFor(path, mid)
	require.NoError(t, err)
	assert.Len(t, points, len(datasets)*len(samples)+1)

	peers := points[len(points)-1]
	assert.Equal(t, "peers", peers.Name())
	tags := make(map[string]string)
	for _, tag := range peers.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"role": "receiver", "addr": "0.0.0.0:9999", "peer": "127.0.0.1:5000"}, tags)
}

func TestPointsForMissingDataset(t *testing.T) {
	path := t.TempDir()
	_, err := pointsFor(path, &util.MetricsId{Id: "tachyon.1"})
	assert.Error(t, err)
}
