package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sri-shubham/Everclimb/internal/snapshot"
)

func genCmd(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var g genFlags
	g.register(fs)
	entrance := fs.Int("entrance", -1, "fixed entrance column (-1 picks one)")
	out := fs.String("out", "", "write a snapshot to this path instead of printing JSON")
	_ = fs.Parse(args)

	cfg, log, gen, err := g.setup()
	if err != nil {
		return err
	}
	req := g.request(cfg)
	if *entrance >= 0 {
		req.Entrance = entrance
	}
	c := gen.Generate(req)
	log.Info("generated", "seed", c.Seed(), "level", c.Level(), "cols", c.Cols(), "rows", c.Rows(),
		"repairs", c.Repairs(), "digest", c.DigestString())

	if *out == "" {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(c)
	}
	path := *out
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, fmt.Sprintf("%08x-%d.chunk.zst", c.Seed(), c.Level()))
	}
	if err := snapshot.WriteFile(path, c); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	fmt.Println(path)
	return nil
}
