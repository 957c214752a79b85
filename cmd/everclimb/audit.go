package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/genlog"
	"github.com/sri-shubham/Everclimb/internal/route"
	"github.com/sri-shubham/Everclimb/internal/snapshot"
)

func auditCmd(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	var g genFlags
	g.register(fs)
	seeds := fs.Int("seeds", 100, "chunks to generate per level")
	levels := fs.String("levels", "1,5,10,20,35,50", "comma separated levels")
	index := fs.String("index", "", "sqlite index path (default from config)")
	_ = fs.Parse(args)

	cfg, log, gen, err := g.setup()
	if err != nil {
		return err
	}
	lv, err := parseLevels(*levels)
	if err != nil {
		return err
	}
	path := *index
	if path == "" {
		path = cfg.Storage.IndexPath
	}
	idx, err := genlog.Open(path)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()

	ctx := context.Background()
	failures := 0
	climbHexes := map[int]int{}
	for _, level := range lv {
		for i := 0; i < *seeds; i++ {
			req := g.request(cfg)
			req.Level = level
			req.Seed = uint32(g.seed) + uint32(i)

			start := time.Now()
			c := gen.Generate(req)
			elapsed := time.Since(start)

			path, ok := verify(gen, c)
			climbHexes[level] += path.Hexes()
			if !ok {
				failures++
				log.Error("chunk failed verification", "seed", c.Seed(), "level", c.Level())
			}
			if err := idx.Record(ctx, genlog.EntryFor(c, ok, elapsed)); err != nil {
				return err
			}
		}
	}

	fmt.Printf("%-6s %-6s %-8s %-8s %-8s %-8s %s\n", "level", "count", "avgfix", "maxfix", "coins", "climb", "unverified")
	for _, level := range lv {
		s, err := idx.Stats(ctx, level)
		if err != nil {
			return err
		}
		fmt.Printf("%-6d %-6d %-8.2f %-8d %-8.1f %-8.1f %d\n", level, s.Count, s.AvgRepairs, s.MaxRepairs, s.AvgCoins,
			float64(climbHexes[level])/float64(*seeds), s.Unverified)
	}
	if failures > 0 {
		return fmt.Errorf("%d chunks failed verification", failures)
	}
	return nil
}

// verify checks c with the independent route search and by regenerating it.
// The returned path is the witness climb, nil when none exists.
func verify(gen *chunk.Generator, c *chunk.Chunk) (route.Path, bool) {
	path, ok := route.Climb(c, c.Params())
	if !ok {
		return nil, false
	}
	for _, reached := range route.RowsReached(c, c.Params()) {
		if !reached {
			return path, false
		}
	}
	return path, snapshot.Verify(gen, c) == nil
}

func parseLevels(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, err := strconv.Atoi(part)
		if err != nil || l < 1 {
			return nil, fmt.Errorf("bad level %q", part)
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no levels given")
	}
	return out, nil
}
