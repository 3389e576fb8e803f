package influx

import (
	"context"
	"fmt"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/openziti/tachyon/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var datasets = []string{
	"rx_bytes",
	"rx_msgs",
	"tx_bytes",
	"tx_msgs",
	"truncated",
	"errors",
}

func influx(_ *cobra.Command, args []string) {
	found, err := util.DiscoverMetrics(args[0])
	if err != nil {
		logrus.Fatalf("error discovering metrics (%v)", err)
	}

	authToken := influxDbToken
	if authToken == "" && (influxDbUsername != "" || influxDbPassword != "") {
		authToken = fmt.Sprintf("%s:%s", influxDbUsername, influxDbPassword)
	}
	client := influxdb2.NewClient(influxDbUrl, authToken)
	defer client.Close()
	writeApi := client.WriteAPIBlocking(influxDbOrg, influxDbBucket)

	for path, mid := range found {
		if !strings.HasPrefix(mid.Id, "tachyon.") {
			logrus.Warnf("skipping [%s], unknown metrics id [%s]", path, mid.Id)
			continue
		}
		points, err := pointsFor(path, mid)
		if err != nil {
			logrus.Fatalf("error reading [%s] (%v)", path, err)
		}
		if err := writeApi.WritePoint(context.Background(), points...); err != nil {
			logrus.Fatalf("error writing points for [%s] (%v)", path, err)
		}
		logrus.Infof("wrote [%d] points for [%s]", len(points), path)
	}
}

// pointsFor converts one sample directory into points tagged with the socket that produced it. Peer tallies carry no
// timestamps of their own and are stamped with the directory's modification time.
//
func pointsFor(path string, mid *util.MetricsId) ([]*write.Point, error) {
	role, addr := socketOf(path, mid)

	var points []*write.Point
	for _, dataset := range datasets {
		data, err := util.ReadSamples(filepath.Join(path, dataset+".csv"))
		if err != nil {
			return nil, errors.Wrapf(err, "dataset [%s]", dataset)
		}
		for ts, v := range data {
			p := influxdb2.NewPoint(dataset, nil, map[string]interface{}{"v": v}, time.Unix(0, ts)).
				AddTag("role", role).
				AddTag("addr", addr)
			points = append(points, p)
		}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	tallies, err := util.ReadTallies(filepath.Join(path, "peers.csv"))
	if err != nil {
		return nil, errors.Wrap(err, "peers")
	}
	for _, tally := range tallies {
		p := influxdb2.NewPoint("peers", nil, map[string]interface{}{"v": tally.V}, fi.ModTime()).
			AddTag("role", role).
			AddTag("addr", addr).
			AddTag("peer", tally.Name)
		points = append(points, p)
	}
	return points, nil
}

func socketOf(path string, mid *util.MetricsId) (role, addr string) {
	role = strings.SplitN(filepath.Base(path), "_", 2)[0]
	addr = mid.Values["addr"]
	return
}
