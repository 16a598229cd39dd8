package main

import (
	"context"
	"log"

	"github.com/easysewa/booking-service/internal/app/bootstrap"
	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to the YAML config file")
	force := flag.Bool("force", false, "drop every managed table before migrating")
	flag.Parse()

	ctx := context.Background()
	tools, err := bootstrap.NewTools(ctx, *configPath)
	if err != nil {
		log.Fatalf("bootstrap migrate: %v", err)
	}
	defer tools.Close()

	if err := tools.Migrate(ctx, *force); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
