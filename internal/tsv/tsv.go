// Package tsv handles the tab-separated bulk upload files the dashboard
// exchanges with the backend as base64-encoded JSON fields. The gateway
// validates structure before forwarding so obviously broken files fail
// fast without an upstream round trip.
package tsv

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// MaxRows bounds a single bulk upload.
const MaxRows = 5000

// ProductRow is one line of a product bulk upload file.
type ProductRow struct {
	Barcode    string  `csv:"barcode"`
	ClientName string  `csv:"clientName"`
	Name       string  `csv:"name"`
	MRP        float64 `csv:"mrp"`
	ImageURL   string  `csv:"imageUrl"`
}

// InventoryRow is one line of an inventory bulk update file.
type InventoryRow struct {
	Barcode  string `csv:"barcode"`
	Quantity int    `csv:"quantity"`
}

// Decode unwraps a base64 payload into raw file bytes.
func Decode(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", domain.ErrInvalidUpload)
	}
	return raw, nil
}

// Encode wraps raw file bytes for transport inside a JSON field.
func Encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// ParseProducts reads and validates a product TSV.
func ParseProducts(raw []byte) ([]ProductRow, error) {
	var rows []ProductRow
	if err := unmarshalTSV(raw, &rows); err != nil {
		return nil, err
	}
	if err := checkRowCount(len(rows)); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if r.Barcode == "" {
			return nil, fmt.Errorf("%w: row %d has an empty barcode", domain.ErrInvalidUpload, i+1)
		}
	}
	return rows, nil
}

// ParseInventory reads and validates an inventory TSV.
func ParseInventory(raw []byte) ([]InventoryRow, error) {
	var rows []InventoryRow
	if err := unmarshalTSV(raw, &rows); err != nil {
		return nil, err
	}
	if err := checkRowCount(len(rows)); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if r.Barcode == "" {
			return nil, fmt.Errorf("%w: row %d has an empty barcode", domain.ErrInvalidUpload, i+1)
		}
	}
	return rows, nil
}

// MarshalProducts serialises rows back into TSV bytes.
func MarshalProducts(rows []ProductRow) ([]byte, error) {
	return marshalTSV(rows)
}

// MarshalInventory serialises rows back into TSV bytes.
func MarshalInventory(rows []InventoryRow) ([]byte, error) {
	return marshalTSV(rows)
}

func unmarshalTSV(raw []byte, out any) error {
	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = '\t'
	r.LazyQuotes = true
	if err := gocsv.UnmarshalCSV(r, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidUpload, err)
	}
	return nil
}

func marshalTSV(rows any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkRowCount(n int) error {
	if n == 0 {
		return fmt.Errorf("%w: file has no data rows", domain.ErrInvalidUpload)
	}
	if n > MaxRows {
		return fmt.Errorf("%w: %d rows exceeds the limit of %d", domain.ErrInvalidUpload, n, MaxRows)
	}
	return nil
}
