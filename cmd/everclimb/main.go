// Command everclimb generates, inspects and audits climbing chunks offline.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/config"
	"github.com/sri-shubham/Everclimb/internal/difficulty"
	"github.com/sri-shubham/Everclimb/internal/hex"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: everclimb <command> [flags]

commands:
  gen      generate one chunk and print it as JSON or write a snapshot
  next     follow a climb through stitched chunks
  audit    generate many chunks, verify each climb and index the results
  preview  draw a chunk in the terminal`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "gen":
		err = genCmd(args)
	case "next":
		err = nextCmd(args)
	case "audit":
		err = auditCmd(args)
	case "preview":
		err = previewCmd(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

// genFlags are shared by every command that generates chunks.
type genFlags struct {
	configPath string
	curvePath  string
	seed       uint
	level      int
	hexSize    float64
	width      float64
	height     float64
	verbose    bool
}

func (g *genFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "config file supplying generator defaults")
	fs.StringVar(&g.curvePath, "curve", "", "difficulty curve override (YAML)")
	fs.UintVar(&g.seed, "seed", 0xDEADBEEF, "32-bit chunk seed")
	fs.IntVar(&g.level, "level", 1, "difficulty level")
	fs.Float64Var(&g.hexSize, "hex", 0, "hex size in pixels (default from config, else 24)")
	fs.Float64Var(&g.width, "width", 0, "viewport width in pixels")
	fs.Float64Var(&g.height, "height", 0, "viewport height in pixels")
	fs.BoolVar(&g.verbose, "v", false, "log repairs at debug level")
}

// setup resolves config, logger and generator from the flags.
func (g *genFlags) setup() (*config.Config, *slog.Logger, *chunk.Generator, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return nil, nil, nil, err
		}
	}
	if g.curvePath != "" {
		cfg.Difficulty.CurvePath = g.curvePath
	}
	if g.hexSize > 0 {
		cfg.Generator.HexSize = g.hexSize
	}
	if g.width > 0 && g.height > 0 {
		cfg.Generator.ViewportWidth, cfg.Generator.ViewportHeight = g.width, g.height
	}
	level := cfg.Log.SlogLevel()
	if g.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	curve, err := cfg.Difficulty.Curve()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, chunk.NewGenerator(chunk.WithCurve(curve), chunk.WithLogger(log)), nil
}

func (g *genFlags) request(cfg *config.Config) chunk.Request {
	return chunk.Request{
		HexSize:  cfg.Generator.HexSize,
		Seed:     uint32(g.seed),
		Level:    g.level,
		Viewport: hex.Viewport{Width: cfg.Generator.ViewportWidth, Height: cfg.Generator.ViewportHeight},
	}
}

// paramsLine formats the knobs that matter most when reading output.
func paramsLine(p difficulty.Params) string {
	return fmt.Sprintf("stamina=%.1f base=%.2f mud=%.2f slip=+%.2f food=%.1f boots=%d coins=[%d,%d]",
		p.StaminaBudget, p.BaseCost, p.MudCost, p.SlipCostExtra, p.FoodValue, p.BootsSteps, p.CoinsMin, p.CoinsMax)
}
