package main

import (
	"log"
	"net/http"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	_ "modernc.org/sqlite"
)

var cli struct {
	MetricsAddr string `env:"AIREMAD_METRICS_ADDR" help:"Expose Prometheus metrics on this address while the command runs."`

	Fetch FetchCmd `cmd:"" help:"Download raw monthly exports from the Madrid open-data portal."`
	Clean CleanCmd `cmd:"" help:"Clean raw exports into per-pollutant long-format CSVs."`
	Stats StatsCmd `cmd:"" help:"Print a summary-statistics comparison of two cleaned series."`
	Plot  PlotCmd  `cmd:"" help:"Render analysis charts as PNG files."`
	Svd   SvdCmd   `cmd:"" name:"svd" help:"Emit singular values of a series' trajectory matrix."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("airemad"),
		kong.Description("Cleaning and charting of hourly Madrid air-quality exports."),
		kong.UsageOnError(),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	if cli.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cli.MetricsAddr, mux); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	ctx.FatalIfErrorf(ctx.Run())
}
