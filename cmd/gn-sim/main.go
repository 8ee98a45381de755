// Command gn-sim runs one GN-model simulation from a config file (or the
// built-in reference scenario), prints the per-channel noise budget and
// optionally saves a spectrum plot and records the run.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/telecominfraproject/gnmodel/internal/config"
	"github.com/telecominfraproject/gnmodel/internal/db"
	"github.com/telecominfraproject/gnmodel/internal/link"
	"github.com/telecominfraproject/gnmodel/internal/plotting"
	"github.com/telecominfraproject/gnmodel/internal/sim"
	"github.com/telecominfraproject/gnmodel/internal/storage/sqlite"
	"github.com/telecominfraproject/gnmodel/internal/units"
)

func main() {
	configPath := flag.String("config", "", "Path to a simulation config JSON (defaults to the reference scenario)")
	plotPath := flag.String("plot", "", "Write a comb+NLI spectrum PNG to this path")
	dbPath := flag.String("db", "", "Record the run into this sqlite database")
	migrations := flag.String("migrations", "migrations", "Path to the migrations directory")
	label := flag.String("label", "", "Label to store with the run")
	centerOnly := flag.Bool("center-only", false, "Evaluate the NLI at the comb centre only (reference demo mode)")
	flag.Parse()

	cfg := config.EmptySimConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSimConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	if *centerOnly {
		runCenterOnly(cfg, *plotPath)
		return
	}

	res, err := sim.Run(cfg)
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	fmt.Printf("Elapsed: %s\n", res.Elapsed)
	fmt.Println("channel,freq_thz,launch_dbm,nli_dbm,ase_dbm,osnr_db,gsnr_db,feasible")
	for _, ch := range res.Evaluation.Channels {
		fmt.Printf("%d,%.4f,%.2f,%.2f,%.2f,%.2f,%.2f,%v\n",
			ch.Index, ch.FrequencyTHz,
			units.WattToDBm(ch.LaunchPowerW),
			units.WattToDBm(ch.NLIPowerW),
			units.WattToDBm(ch.ASEPowerW),
			ch.OSNRdB, ch.GSNRdB, ch.Feasible)
	}
	if fmtBest, ok := link.BestFormat(res.Evaluation.WorstGSNRdB); ok {
		fmt.Printf("worst GSNR %.2f dB, best format %s\n", res.Evaluation.WorstGSNRdB, fmtBest.Name)
	} else {
		fmt.Printf("worst GSNR %.2f dB, no format feasible\n", res.Evaluation.WorstGSNRdB)
	}

	if *plotPath != "" {
		freqs := res.Comb.CenterFrequencies()
		psd := make([]float64, len(res.Evaluation.Channels))
		for i, ch := range res.Evaluation.Channels {
			psd[i] = ch.NLIPSDWPerTHz
		}
		if err := plotting.SpectrumPNG(res.Comb, freqs, psd, *plotPath); err != nil {
			log.Fatalf("plot: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *plotPath)
	}

	if *dbPath != "" {
		database, err := db.New(*dbPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer database.Close()
		if err := database.MigrateUp(*migrations); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		run, err := sim.Record(sqlite.NewRunStore(database.DB), *label, res)
		if err != nil {
			log.Fatalf("record run: %v", err)
		}
		fmt.Fprintf(os.Stderr, "recorded run %s\n", run.RunID)
	}
}

// runCenterOnly reproduces the reference demo: NLI PSD at the comb centre
// (one frequency for odd combs, the straddling pair for even ones).
func runCenterOnly(cfg *config.SimConfig, plotPath string) {
	comb := cfg.Comb()
	params := cfg.Params(comb)
	if cfg.GetChannelCount()%2 == 1 {
		params.EvalFrequencies = []float64{0}
	} else {
		half := cfg.GetSpacingTHz() / 2
		params.EvalFrequencies = []float64{-half, half}
	}

	res, err := sim.RunAt(cfg, params)
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	fmt.Printf("Elapsed: %s\n", res.Elapsed)
	for i, f := range params.EvalFrequencies {
		fmt.Printf("f=%.4f THz  GNLI=%.4e W/THz (%.2f dB(W/THz))\n",
			f, res.NLIPSD[i], units.LinearToDB(res.NLIPSD[i]))
	}

	if plotPath != "" {
		if err := plotting.SpectrumPNG(comb, params.EvalFrequencies, res.NLIPSD, plotPath); err != nil {
			log.Fatalf("plot: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", plotPath)
	}
}
