// Command gn-sweep sweeps the per-channel launch power over a configured
// link and reports where the worst-channel GSNR peaks. Output is CSV on
// stdout; diagnostics go to stderr.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/telecominfraproject/gnmodel/internal/config"
	"github.com/telecominfraproject/gnmodel/internal/plotting"
	"github.com/telecominfraproject/gnmodel/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to a simulation config JSON (defaults to the reference scenario)")
	start := flag.Float64("start", -6, "Start launch power in dBm")
	end := flag.Float64("end", 6, "End launch power in dBm")
	step := flag.Float64("step", 0.5, "Step increment in dBm")
	plotPath := flag.String("plot", "", "Write a sweep PNG to this path")
	flag.Parse()

	if *step <= 0 {
		log.Fatal("step must be positive")
	}
	if *end < *start {
		log.Fatal("end must not be below start")
	}

	cfg := config.EmptySimConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSimConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	var powers, worst []float64
	bestIdx := -1

	fmt.Println("launch_power_dbm,worst_gsnr_db,worst_osnr_db,feasible")
	for p := *start; p <= *end+1e-9; p += *step {
		power := p
		cfg.LaunchPowerDBm = &power

		res, err := sim.Run(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run at %.2f dBm: %v\n", p, err)
			os.Exit(1)
		}

		worstOSNR := math.Inf(1)
		for _, ch := range res.Evaluation.Channels {
			if ch.OSNRdB < worstOSNR {
				worstOSNR = ch.OSNRdB
			}
		}

		fmt.Printf("%.2f,%.3f,%.3f,%v\n", p, res.Evaluation.WorstGSNRdB, worstOSNR, res.Evaluation.Feasible)

		powers = append(powers, p)
		worst = append(worst, res.Evaluation.WorstGSNRdB)
		if bestIdx < 0 || res.Evaluation.WorstGSNRdB > worst[bestIdx] {
			bestIdx = len(worst) - 1
		}
	}

	if bestIdx >= 0 {
		fmt.Fprintf(os.Stderr, "optimum launch power %.2f dBm (worst-channel GSNR %.2f dB)\n", powers[bestIdx], worst[bestIdx])
	}

	if *plotPath != "" {
		if err := plotting.SweepPNG(powers, worst, *plotPath); err != nil {
			log.Fatalf("plot: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *plotPath)
	}
}
