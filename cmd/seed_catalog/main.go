package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/styleswipe-backend/internal/app"
	"github.com/yungbote/styleswipe-backend/internal/data/catalogseed"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
)

func main() {
	var (
		path   string
		dryRun bool
		batch  int
	)
	flag.StringVar(&path, "file", "catalog.yaml", "YAML catalog to load")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	flag.IntVar(&batch, "batch", 200, "items per upsert")
	flag.Parse()

	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("open catalog: %v\n", err)
		os.Exit(1)
	}
	items, err := catalogseed.Parse(f)
	_ = f.Close()
	if err != nil {
		fmt.Printf("invalid catalog:\n%v\n", err)
		os.Exit(1)
	}
	if dryRun {
		fmt.Printf("%d items valid\n", len(items))
		return
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	dbc := dbctx.Context{Ctx: context.Background()}
	if batch <= 0 {
		batch = len(items)
	}
	for start := 0; start < len(items); start += batch {
		end := min(start+batch, len(items))
		if err := application.Repos.Items.Upsert(dbc, items[start:end]); err != nil {
			application.Log.Error("catalog upsert failed", "offset", start, "error", err)
			application.Close()
			os.Exit(1)
		}
	}
	application.Log.Info("catalog seeded", "items", len(items), "file", path)
}
