package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/config"
	"github.com/ReemHassan742/bookcatalog/internal/cli"
	"github.com/ReemHassan742/bookcatalog/internal/repository"
	"github.com/ReemHassan742/bookcatalog/internal/seed"
	"github.com/ReemHassan742/bookcatalog/internal/service"
	"github.com/ReemHassan742/bookcatalog/migrations"
	"github.com/ReemHassan742/bookcatalog/pkg/logger"
	"github.com/ReemHassan742/bookcatalog/pkg/postgres"
)

// Run starts the interactive menu over the catalog service and blocks
// until the user exits or a termination signal arrives.
func Run(cfg config.Config) error {
	return withService(cfg, func(ctx context.Context, svc *service.Service, log *zap.Logger) error {
		menu := cli.NewMenu(svc, os.Stdin, os.Stdout, log)
		return menu.Run(ctx)
	})
}

// Seed populates an empty catalog with demo data.
func Seed(cfg config.Config) error {
	return withService(cfg, func(ctx context.Context, svc *service.Service, log *zap.Logger) error {
		return seed.NewSeeder(svc, log).Run(ctx)
	})
}

// Stats prints the catalog summary once and exits.
func Stats(cfg config.Config) error {
	return withService(cfg, func(ctx context.Context, svc *service.Service, log *zap.Logger) error {
		st, err := svc.GetStatistics(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("books: %d (available %d / unavailable %d)\n",
			st.TotalBooks, st.AvailableBooks, st.UnavailableBooks)
		fmt.Printf("authors: %d, genres: %d\n", st.TotalAuthors, st.TotalGenres)
		fmt.Printf("average price: $%s\n", st.AveragePrice.StringFixed(2))
		fmt.Printf("most expensive: %s\n", st.MostExpensive)
		fmt.Printf("cheapest: %s\n", st.Cheapest)
		return nil
	})
}

func withService(cfg config.Config, fn func(ctx context.Context, svc *service.Service, log *zap.Logger) error) error {
	log := logger.NewLogger(cfg.Log, "catalog")
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Error("db init", zap.Error(err))
		return err
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Error("repo", zap.Error(err))
		return err
	}
	svc := service.NewService(repo, log, cfg.Cache.TTL)

	return fn(ctx, svc, log)
}
