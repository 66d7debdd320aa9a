package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CoralRocker/Team73-Project3/config"
	"github.com/CoralRocker/Team73-Project3/internal/database"
	"github.com/CoralRocker/Team73-Project3/internal/database/models"
	"github.com/CoralRocker/Team73-Project3/internal/storefront"
	"github.com/CoralRocker/Team73-Project3/pkg/logger"
)

// Seeds the catalog from TSV exports.
//
// Inventory columns:      id, name, price, stock, ordered, unit
// Menu columns:           id, name, price, ingredients, size, type, image
// Customization columns:  id, name, price, amount, type, ingredient
//
// The menu ingredients column holds "(inventory_id, amount)" pairs, e.g.
// "(1, 200)(4, 30)".

var ingredientPair = regexp.MustCompile(`\((\d+),\s*(\d+)\)`)

func main() {
	inventoryFile := flag.String("inventory", "", "path to the inventory TSV")
	menuFile := flag.String("menu", "", "path to the menu TSV")
	customizationsFile := flag.String("customizations", "", "path to the customizations TSV")
	appendOnly := flag.Bool("append", false, "append to existing tables instead of replacing them")
	flag.Parse()

	if *inventoryFile == "" && *menuFile == "" && *customizationsFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}

	catalog := storefront.NewCatalog(db, zlog)
	ctx := context.Background()

	if *inventoryFile != "" {
		items, err := readInventory(*inventoryFile)
		if err != nil {
			zlog.Fatal("inventory read failed", zap.String("file", *inventoryFile), zap.Error(err))
		}
		if err := catalog.ReplaceInventory(ctx, items, *appendOnly); err != nil {
			zlog.Fatal("inventory seed failed", zap.Error(err))
		}
		zlog.Info("inventory seeded", zap.Int("rows", len(items)), zap.Bool("append", *appendOnly))
	}

	if *menuFile != "" {
		seeds, err := readMenu(*menuFile)
		if err != nil {
			zlog.Fatal("menu read failed", zap.String("file", *menuFile), zap.Error(err))
		}
		if err := catalog.ReplaceMenu(ctx, seeds, *appendOnly); err != nil {
			zlog.Fatal("menu seed failed", zap.Error(err))
		}
		zlog.Info("menu seeded", zap.Int("rows", len(seeds)), zap.Bool("append", *appendOnly))
	}

	if *customizationsFile != "" {
		custs, err := readCustomizations(*customizationsFile)
		if err != nil {
			zlog.Fatal("customizations read failed", zap.String("file", *customizationsFile), zap.Error(err))
		}
		if err := catalog.ReplaceCustomizations(ctx, custs, *appendOnly); err != nil {
			zlog.Fatal("customizations seed failed", zap.Error(err))
		}
		zlog.Info("customizations seeded", zap.Int("rows", len(custs)), zap.Bool("append", *appendOnly))
	}
}

func readTSV(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = wantCols

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	return rows[1:], nil // skip header
}

func readInventory(path string) ([]models.InventoryItem, error) {
	rows, err := readTSV(path, 6)
	if err != nil {
		return nil, err
	}

	items := make([]models.InventoryItem, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad id %q", i+2, row[0])
		}
		price, err := decimal.NewFromString(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad price %q", i+2, row[2])
		}
		stock, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad stock %q", i+2, row[3])
		}
		ordered, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad ordered %q", i+2, row[4])
		}
		unit, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad unit %q", i+2, row[5])
		}

		items = append(items, models.InventoryItem{
			ID:            id,
			Name:          row[1],
			UnitCost:      price,
			Stock:         stock,
			Ordered:       ordered,
			AmountPerUnit: unit,
		})
	}
	return items, nil
}

func readMenu(path string) ([]storefront.MenuSeed, error) {
	rows, err := readTSV(path, 7)
	if err != nil {
		return nil, err
	}

	seeds := make([]storefront.MenuSeed, 0, len(rows))
	for i, row := range rows {
		price, err := decimal.NewFromString(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad price %q", i+2, row[2])
		}

		var draws []storefront.IngredientDraw
		for _, m := range ingredientPair.FindAllStringSubmatch(row[3], -1) {
			invID, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad ingredient id %q", i+2, m[1])
			}
			amount, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad ingredient amount %q", i+2, m[2])
			}
			draws = append(draws, storefront.IngredientDraw{
				InventoryItemID: invID,
				Amount:          amount,
			})
		}

		seeds = append(seeds, storefront.MenuSeed{
			Item: models.MenuItem{
				Name:  row[1],
				Price: price,
				Size:  row[4],
				Type:  row[5],
			},
			Ingredients: draws,
		})
	}
	return seeds, nil
}

func readCustomizations(path string) ([]models.Customization, error) {
	rows, err := readTSV(path, 6)
	if err != nil {
		return nil, err
	}

	custs := make([]models.Customization, 0, len(rows))
	for i, row := range rows {
		price, err := decimal.NewFromString(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad price %q", i+2, row[2])
		}
		amount, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad amount %q", i+2, row[3])
		}
		ingredient, err := strconv.ParseInt(row[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad ingredient id %q", i+2, row[5])
		}

		custs = append(custs, models.Customization{
			Name:            row[1],
			Cost:            price,
			DrawAmount:      amount,
			Category:        row[4],
			InventoryItemID: ingredient,
		})
	}
	return custs, nil
}
