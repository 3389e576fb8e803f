package influx

import (
	"github.com/openziti/tachyon/cmd/tachyon/tachyon"
	"github.com/spf13/cobra"
)

func init() {
	influxCmd.Flags().StringVarP(&influxDbUrl, "url", "", "http://localhost:8086", "InfluxDB URL")
	influxCmd.Flags().StringVarP(&influxDbUsername, "username", "", "", "InfluxDB Username")
	influxCmd.Flags().StringVarP(&influxDbPassword, "password", "", "", "InfluxDB Password")
	influxCmd.Flags().StringVarP(&influxDbToken, "token", "", "", "InfluxDB Token (overrides username and password)")
	influxCmd.Flags().StringVarP(&influxDbOrg, "org", "", "", "InfluxDB Organization")
	influxCmd.Flags().StringVarP(&influxDbBucket, "bucket", "", "tachyon", "InfluxDB Bucket (or database)")
	tachyon.RootCmd.AddCommand(influxCmd)
}

var influxCmd = &cobra.Command{
	Use:   "influx <metricsRoot>",
	Short: "Import metrics instrument data into InfluxDB",
	Args:  cobra.ExactArgs(1),
	Run:   influx,
}
var influxDbUrl string
var influxDbUsername string
var influxDbPassword string
var influxDbToken string
var influxDbOrg string
var influxDbBucket string
