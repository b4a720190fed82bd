package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"backoffice.GO/config"
	catalogService "backoffice.GO/service/catalog"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "products:import",
	Short: "Import products with variants from CSV",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(importFile)
		if err != nil {
			fmt.Printf("Failed to open CSV: %v\n", err)
			return
		}
		defer f.Close()

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		start := time.Now()
		res, err := ImportProductsCSV(db, f)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		fmt.Printf(`
=== Import Report ===
CSV rows:   %d
Products:   %d
Variants:   %d
Skipped:    %d
Total time: %s
=====================
`, res.TotalRows, res.Products, res.Variants, res.Skipped, time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file path (required)")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

// ImportResult holds the outcome of one CSV import run.
type ImportResult struct {
	TotalRows int
	Products  int
	Variants  int
	Skipped   int
	Warnings  []string
}

// ImportProductsCSV reads rows of
// title,category,status,sku,option_name,price,default_cost,stock_qty,is_bundle
// and creates one product per run of consecutive rows sharing a title.
// Initial stock flows through the normal create path, so the IN ledger
// entries are written with it.
func ImportProductsCSV(db *gorm.DB, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "category", "sku"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		ci, ok := colIndex[name]
		if !ok || ci >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[ci])
	}

	res := &ImportResult{}
	var current *catalogService.ProductInput

	flush := func() {
		if current == nil {
			return
		}
		if _, err := catalogService.CreateProduct(db, *current); err != nil {
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("product %q: %v", current.Title, err))
		} else {
			res.Products++
			res.Variants += len(current.Variants)
		}
		current = nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		res.TotalRows++

		title := field(row, "title")
		if title == "" {
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: empty title, skipping", res.TotalRows))
			continue
		}

		price, _ := strconv.ParseFloat(field(row, "price"), 64)
		cost, _ := strconv.ParseFloat(field(row, "default_cost"), 64)
		qty, _ := strconv.Atoi(field(row, "stock_qty"))
		isBundle := field(row, "is_bundle") == "1" || strings.EqualFold(field(row, "is_bundle"), "true")

		variant := catalogService.VariantInput{
			SKU:         field(row, "sku"),
			OptionName:  field(row, "option_name"),
			Price:       price,
			DefaultCost: cost,
			StockQty:    qty,
			IsBundle:    isBundle,
		}

		if current != nil && current.Title == title {
			current.Variants = append(current.Variants, variant)
			continue
		}
		flush()
		current = &catalogService.ProductInput{
			Title:    title,
			Category: field(row, "category"),
			Status:   field(row, "status"),
			Variants: []catalogService.VariantInput{variant},
		}
	}
	flush()

	return res, nil
}
