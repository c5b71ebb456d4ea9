package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) error
}

type OfferingWriter interface {
	Upsert(ctx context.Context, o domain.Offering) error
}

// Result counts what a Run wrote.
type Result struct {
	Products  int
	Offerings int
}

// CSVImporter loads catalog rows (products and repair services) from CSV.
// Rows with an empty id and only an image extend the gallery of the product
// above them.
type CSVImporter struct {
	reader    *csv.Reader
	products  ProductWriter
	offerings OfferingWriter
	logger    *zap.Logger
}

func NewCSVImporter(r io.Reader, products ProductWriter, offerings OfferingWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader:    csvr,
		products:  products,
		offerings: offerings,
		logger:    logger,
	}
}

type csvRow struct {
	Line          int
	Kind          domain.ItemType
	ID            string
	Name          string
	Desc          string
	Category      string
	Price         string
	DiscountPrice string
	Images        []string
}

// Run reads every row and upserts it. It stops at the first invalid row.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return res, errors.New("missing id column")
	}

	var (
		current *csvRow
		line    = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index, line)
		if row == nil {
			continue
		}

		if row.ID != "" {
			if current != nil {
				if err := i.save(ctx, current, &res); err != nil {
					return res, err
				}
			}
			current = row
			continue
		}

		if current != nil && len(row.Images) > 0 {
			current.Images = append(current.Images, row.Images...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current, &res); err != nil {
			return res, err
		}
	}

	i.logger.Info("catalog import finished", zap.Int("products", res.Products), zap.Int("offerings", res.Offerings))
	return res, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow, res *Result) error {
	if row.Name == "" {
		return fmt.Errorf("line %d: name required for %q", row.Line, row.ID)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return fmt.Errorf("line %d: invalid price %q for %q", row.Line, row.Price, row.ID)
	}

	switch row.Kind {
	case domain.ItemTypeService:
		o := domain.Offering{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Desc,
			Price:       price,
		}
		if len(row.Images) > 0 {
			o.ImageURL = row.Images[0]
		}
		if err := i.offerings.Upsert(ctx, o); err != nil {
			return fmt.Errorf("upsert service %q: %w", row.ID, err)
		}
		res.Offerings++
	case domain.ItemTypeProduct:
		p := domain.Product{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Desc,
			Category:    row.Category,
			Price:       price,
			ImageURLs:   row.Images,
		}
		if len(row.Images) > 0 {
			p.Image = row.Images[0]
		}
		if row.DiscountPrice != "" {
			d, err := decimal.NewFromString(row.DiscountPrice)
			if err != nil || d.IsNegative() {
				return fmt.Errorf("line %d: invalid discountPrice %q for %q", row.Line, row.DiscountPrice, row.ID)
			}
			p.DiscountPrice = &d
		}
		if err := i.products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %q: %w", row.ID, err)
		}
		res.Products++
	default:
		return fmt.Errorf("line %d: unknown kind %q", row.Line, row.Kind)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) *csvRow {
	id := pick(record, index, "id")
	image := pick(record, index, "image")
	if id == "" && image == "" {
		return nil
	}

	kind := domain.ItemType(strings.ToLower(pick(record, index, "kind")))
	if kind == "" {
		kind = domain.ItemTypeProduct
	}
	row := &csvRow{
		Line:          line,
		Kind:          kind,
		ID:            id,
		Name:          pick(record, index, "name"),
		Desc:          pick(record, index, "description"),
		Category:      pick(record, index, "category"),
		Price:         pick(record, index, "price"),
		DiscountPrice: pick(record, index, "discountPrice"),
	}
	if image != "" {
		row.Images = []string{image}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
