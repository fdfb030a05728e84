// Package main seeds a development database with demo products, stock,
// and prices. Not intended for production use.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ventapos/internal/core/apperror"
	"ventapos/internal/core/types"
	"ventapos/internal/domain/catalog/product"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/domain/pricing"
	"ventapos/internal/infrastructure/storage/postgres"
	"ventapos/internal/infrastructure/storage/postgres/catalog_repo"
	"ventapos/internal/infrastructure/storage/postgres/ledger_repo"
	"ventapos/pkg/logger"
)

type seedRow struct {
	name    string
	barcode string
	unit    product.Unit
	stock   string
	reorder string
	price   string
}

var seedRows = []seedRow{
	{"Espresso Beans 1kg", "4006381333931", product.UnitPack, "40", "10", "14.90"},
	{"Whole Milk 1l", "4006381333932", product.UnitLiter, "60", "24", "1.19"},
	{"Butter Croissant", "4006381333933", product.UnitPiece, "25", "12", "2.10"},
	{"Orange Juice 1l", "4006381333934", product.UnitLiter, "30", "10", "2.95"},
	{"Dark Chocolate 85%", "4006381333935", product.UnitPiece, "50", "15", "3.40"},
	{"Mineral Water 0.5l", "4006381333936", product.UnitPiece, "120", "48", "0.89"},
	{"Rye Bread", "4006381333937", product.UnitPiece, "18", "8", "3.75"},
	{"Gouda Cheese", "4006381333938", product.UnitKilogram, "12.5", "4", "11.80"},
}

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	productRepo := catalog_repo.NewProductRepo(txManager)
	priceRepo := catalog_repo.NewPriceRepo(txManager)
	ledger := inventory.NewLedger(ledger_repo.NewStockRepo(txManager), txManager)
	productService := product.NewService(productRepo)
	priceService := pricing.NewService(priceRepo, txManager)

	seeded := 0
	for _, row := range seedRows {
		p := product.New(row.name, row.barcode, row.unit)
		if err := productService.Create(ctx, p); err != nil {
			if apperror.IsCode(err, apperror.CodeDuplicate) {
				log.Infow("product already seeded, skipping", "barcode", row.barcode)
				continue
			}
			log.Fatalw("failed to create product", "name", row.name, "error", err)
		}

		if _, err := ledger.EnsureStockItem(ctx, p.ID); err != nil {
			log.Fatalw("failed to create stock item", "name", row.name, "error", err)
		}
		if err := ledger.Increase(ctx, p.ID, types.MustMoney(row.stock), "initial delivery"); err != nil {
			log.Fatalw("failed to seed stock", "name", row.name, "error", err)
		}
		reorder := types.MustMoney(row.reorder)
		if err := ledger.UpdateReorderPolicy(ctx, p.ID, &reorder, "main floor"); err != nil {
			log.Fatalw("failed to set reorder policy", "name", row.name, "error", err)
		}

		if _, err := priceService.Create(ctx, p.ID, types.MustMoney(row.price), "EUR", true); err != nil {
			log.Fatalw("failed to seed price", "name", row.name, "error", err)
		}

		seeded++
	}

	log.Infow("seed finished", "products", seeded)
}
