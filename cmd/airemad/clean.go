package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aluque/airemad/internal/clean"
	"github.com/aluque/airemad/internal/export"
	"github.com/aluque/airemad/internal/store"
)

// CleanCmd runs the full pipeline: load raw exports, clean, reshape to long
// format, and write one CSV per pollutant per year.
type CleanCmd struct {
	Files []string `arg:"" name:"file" type:"existingfile" help:"Raw monthly export CSVs (semicolon-separated)."`

	Out             string `short:"o" env:"AIREMAD_OUT" help:"Directory for the per-pollutant files (prompted for when omitted)."`
	DB              string `env:"AIREMAD_DB" help:"Optional SQLite database to also load the cleaned samples into."`
	ExcludeStations []int  `name:"exclude-station" default:"54" help:"Station codes to drop as outliers."`
}

func (c *CleanCmd) Run() error {
	raw, err := clean.LoadRaw(c.Files)
	if err != nil {
		return err
	}

	long, err := clean.Run(raw, clean.Options{ExcludedStations: c.ExcludeStations})
	if err != nil {
		return err
	}

	samples, err := clean.Samples(long)
	if err != nil {
		return err
	}
	log.Printf("cleaned %d files into %d samples", len(c.Files), len(samples))

	outDir := c.Out
	if outDir == "" {
		outDir, err = promptOutputDir()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	paths, err := export.WritePerPollutant(samples, outDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}

	if c.DB == "" {
		return nil
	}

	st, err := store.Open(c.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InsertSamples(samples); err != nil {
		return fmt.Errorf("load samples into %s: %w", c.DB, err)
	}
	counts, err := st.CountByPollutant()
	if err != nil {
		return err
	}
	for pollutant, n := range counts {
		log.Printf("database has %d %s samples", n, pollutant)
	}
	return nil
}

func promptOutputDir() (string, error) {
	fmt.Print("Write the path to the directory where the files will be saved.\n> ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read output directory: %w", err)
	}
	dir := strings.TrimSpace(line)
	if dir == "" {
		return "", fmt.Errorf("no output directory given")
	}
	return dir, nil
}
