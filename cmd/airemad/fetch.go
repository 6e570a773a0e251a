package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aluque/airemad/internal/fetch"
)

// FetchCmd downloads raw monthly exports from the open-data portal.
type FetchCmd struct {
	Year int `arg:"" help:"Year to download."`

	Months      []int  `help:"Months to download (default: all twelve)."`
	Out         string `short:"o" default:"." help:"Directory for the downloaded files."`
	URLTemplate string `env:"AIREMAD_URL_TEMPLATE" help:"Portal URL template with {year} and {month} placeholders."`
}

func (c *FetchCmd) Run() error {
	months := c.Months
	if len(months) == 0 {
		for m := 1; m <= 12; m++ {
			months = append(months, m)
		}
	}
	for _, m := range months {
		if m < 1 || m > 12 {
			return fmt.Errorf("invalid month %d", m)
		}
	}

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	client := fetch.New(c.URLTemplate)
	ctx := context.Background()
	for _, m := range months {
		path, err := client.FetchMonth(ctx, c.Year, m, c.Out)
		if err != nil {
			return fmt.Errorf("month %d-%02d: %w", c.Year, m, err)
		}
		log.Printf("downloaded %s", path)
	}
	return nil
}
