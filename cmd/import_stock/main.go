package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/config"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/db"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/excel"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/logging"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/messaging"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/repository"
	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/service"

	"go.uber.org/zap"
)

type options struct {
	stockPath string
	dryRun    bool
	publish   bool
}

func main() {
	opts := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	rows, failures, err := readStockRows(opts.stockPath)
	if err != nil {
		logger.Fatal("read stock file", zap.String("path", opts.stockPath), zap.Error(err))
	}
	logFailures(logger, failures)

	if opts.dryRun {
		logger.Info("dry run finished",
			zap.Int("valid_rows", len(rows)),
			zap.Int("invalid_rows", len(failures)),
		)
		return
	}
	if len(rows) == 0 {
		logger.Fatal("no valid rows to import", zap.Int("invalid_rows", len(failures)))
	}
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("database error", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("migration error", zap.Error(err))
	}

	var events service.EventPublisher = messaging.NopPublisher{}
	if opts.publish && cfg.Kafka.Enabled() {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		events = kafkaPublisher
	}

	svc := service.New(repository.New(pool), events, logger)
	result, err := svc.ImportEntries(ctx, rows)
	if err != nil {
		logger.Fatal("import failed", zap.Int("created", result.Created), zap.Error(err))
	}
	logFailures(logger, result.Failed)

	logger.Info("stock import finished",
		zap.String("path", opts.stockPath),
		zap.Int("total_rows", result.TotalRows+len(failures)),
		zap.Int("created", result.Created),
		zap.Int("failed", len(result.Failed)+len(failures)),
	)
}

func parseFlags() options {
	var opts options
	flag.StringVar(
		&opts.stockPath,
		"stock",
		"stock.xlsx",
		"path to the stock entry workbook (entry_date, quantity, order_id)",
	)
	flag.BoolVar(
		&opts.dryRun,
		"dry-run",
		false,
		"parse and validate the workbook without writing to the database",
	)
	flag.BoolVar(
		&opts.publish,
		"publish",
		false,
		"publish stock events for imported rows when KAFKA_BROKERS is set",
	)
	flag.Parse()
	return opts
}

func readStockRows(path string) ([]domain.StockImportRow, []domain.StockImportFailure, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, failures, err := excel.ParseStockEntryRows(file)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, failures, nil
}

func logFailures(logger *zap.Logger, failures []domain.StockImportFailure) {
	for _, failure := range failures {
		logger.Warn("row skipped", zap.Int("row", failure.RowNumber), zap.String("error", failure.Error))
	}
}
