package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"cellroi/internal/logger"
	"cellroi/internal/models"
	"cellroi/internal/regionio"
	"cellroi/pkg/config"
	"cellroi/pkg/export"
	"cellroi/pkg/imagesource"
	"cellroi/pkg/pipeline"
)

const component = "main"

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "cellroi.yaml", "YAML configuration file (defaults are used if it does not exist)")
	nucleiPath := flag.String("nuclei", "", "JSON file with nuclear region outlines")
	membranesPath := flag.String("membranes", "", "JSON file with whole-cell region outlines")
	channels := flag.String("channels", "", "Comma-separated grayscale TIFF files, one per channel")
	names := flag.String("names", "", "Comma-separated channel names (defaults to file names)")
	output := flag.String("output", "", "SQLite output file (overrides output.database)")
	workers := flag.Int("workers", 0, "Number of workers (overrides processing.numWorkers)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *nucleiPath == "" || *channels == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *workers != 0 {
		cfg.Processing.NumWorkers = *workers
	}
	if *output != "" {
		cfg.Output.Database = *output
	}

	level := zerolog.InfoLevel
	if cfg.Output.Verbose {
		level = zerolog.DebugLevel
	}
	log := logger.NewConsoleLogger(level)

	params, err := pipeline.ParamsFromConfig(cfg)
	if err != nil {
		log.Fatal(component, err, map[string]interface{}{"config": *configPath})
	}

	// Load inputs; any rejection here aborts the run
	nuclei, err := regionio.LoadFile(*nucleiPath)
	if err != nil {
		log.Fatal(component, err, map[string]interface{}{"input": *nucleiPath})
	}
	var membranes []*models.Region
	if *membranesPath != "" {
		membranes, err = regionio.LoadFile(*membranesPath)
		if err != nil {
			log.Fatal(component, err, map[string]interface{}{"input": *membranesPath})
		}
	}

	source, err := imagesource.LoadTIFF(splitList(*channels), splitList(*names))
	if err != nil {
		log.Fatal(component, err, map[string]interface{}{"channels": *channels})
	}
	log.Info(component, "inputs loaded", map[string]interface{}{
		"nuclei":    len(nuclei),
		"membranes": len(membranes),
		"channels":  source.ChannelCount(),
		"width":     source.Width(),
		"height":    source.Height(),
	})

	p, err := pipeline.NewPipeline(params, source, nil, log)
	if err != nil {
		log.Fatal(component, err, nil)
	}
	cells, err := p.Process(nuclei, membranes)
	if err != nil {
		log.Fatal(component, err, nil)
	}

	db, err := export.OpenSQLite(cfg.Output.Database)
	if err != nil {
		log.Fatal(component, err, map[string]interface{}{"database": cfg.Output.Database})
	}
	defer db.Close()

	if _, err := db.WriteCells(source.Width(), source.Height(), cells); err != nil {
		log.Error(component, err, map[string]interface{}{"database": cfg.Output.Database})
		db.Close()
		os.Exit(1)
	}

	summary := p.Summary()
	fmt.Printf("\nProcessed %d nuclei in %.2f seconds\n", summary.Nuclei, summary.Duration.Seconds())
	fmt.Printf("- Matched to whole-cell regions: %d\n", summary.Matched)
	fmt.Printf("- Estimated from nuclei: %d\n", summary.Estimated)
	fmt.Printf("- Removed outside image: %d\n", summary.Filtered)
	fmt.Printf("- Measured: %d\n", summary.Measured)
	fmt.Printf("Feature table saved to: %s\n", cfg.Output.Database)
}

// splitList splits a comma-separated flag value, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
