package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/climb"
	"github.com/sri-shubham/Everclimb/internal/snapshot"
)

func nextCmd(args []string) error {
	fs := flag.NewFlagSet("next", flag.ExitOnError)
	var g genFlags
	g.register(fs)
	n := fs.Int("n", 10, "number of chunks to climb through")
	outDir := fs.String("out-dir", "", "write every chunk as a snapshot into this directory")
	_ = fs.Parse(args)

	cfg, log, gen, err := g.setup()
	if err != nil {
		return err
	}
	first := gen.Generate(g.request(cfg))
	c := climb.New(climb.FromGenerator(gen), first, log)
	defer c.Close()

	ctx := context.Background()
	cur := first
	for i := 0; ; i++ {
		printSummary(cur)
		if *outDir != "" {
			path := filepath.Join(*outDir, fmt.Sprintf("%03d-%08x-%d.chunk.zst", i, cur.Seed(), cur.Level()))
			if err := snapshot.WriteFile(path, cur); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
		}
		if i+1 >= *n {
			return nil
		}
		if cur, err = c.Advance(ctx); err != nil {
			return err
		}
	}
}

func printSummary(c *chunk.Chunk) {
	fmt.Printf("level=%-4d seed=%08x entrance=%-3d repairs=%-3d coins=%-3d food=%-3d boots=%-2d digest=%s\n",
		c.Level(), c.Seed(), c.EntranceQ(), c.Repairs(),
		c.Count(chunk.Coin), c.Count(chunk.Food), c.Count(chunk.Boots), c.DigestString())
}
