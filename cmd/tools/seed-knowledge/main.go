// cmd/tools/seed-knowledge/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"krishisahay/internal/common/config"
	"krishisahay/internal/common/logger"
	"krishisahay/internal/store"
	"krishisahay/pkg/seedpack"
)

func main() {
	packPath := flag.String("pack", "seeds/knowledge.en.json", "Path to a seed pack JSON file")
	dryRun := flag.Bool("dry-run", false, "Validate the pack without writing to the store")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	pack, err := seedpack.Load(*packPath)
	if err != nil {
		zapLog.Error("seed pack rejected", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Pack %q: %d snippets (%s)\n", pack.Name, len(pack.Snippets), pack.Language)

	if *dryRun {
		fmt.Println("Dry run, nothing written.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		zapLog.Error("config load failed", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	stores := store.Probe(ctx, cfg, log)
	defer stores.Close()

	if stores.Backend == "noop" {
		zapLog.Error("no storage backend reachable, nothing to seed into")
		os.Exit(1)
	}

	if err := stores.Knowledge.SeedKnowledge(ctx, pack.Snippets); err != nil {
		zapLog.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Seeded %d snippets into %s\n", len(pack.Snippets), stores.Backend)
}
