package main

import (
	"io"
	"log"
	"os"

	"github.com/gmoran-dev/csv-price-updater/internal/config"
	"github.com/gmoran-dev/csv-price-updater/internal/logging"
	"github.com/gmoran-dev/csv-price-updater/internal/scraper"
	"github.com/gmoran-dev/csv-price-updater/internal/service"
	transport "github.com/gmoran-dev/csv-price-updater/internal/transport/http"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("Warning: logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	fetcher := scraper.NewClient(cfg.VendorBaseURL, cfg.ScraperUserAgent, cfg.ScraperTimeout)
	batchService := service.NewBatchService(fetcher, service.BatchServiceConfig{
		MaxRows:      cfg.MaxRows,
		MaxFileBytes: cfg.MaxUploadBytes,
	})
	batchStore := service.NewBatchStore(cfg.BatchCacheTTL)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterPriceUpdates(e, batchService, batchStore, cfg.MaxUploadBytes)
	transport.RegisterPages(e)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
