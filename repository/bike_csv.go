package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bikefit/domain"
	"bikefit/search"
)

// LoadBikesCSV reads a bike dataset whose first row names the columns. Rows
// without a usable reach or stack are skipped and counted.
func LoadBikesCSV(r io.Reader) ([]domain.BikeRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("bike dataset is empty")
		}
		return nil, 0, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var (
		records []domain.BikeRecord
		skipped int
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read csv row: %w", err)
		}
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				fields[col] = row[i]
			}
		}
		rec, err := search.RecordFromFields(fields)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// LoadBikesCSVFile opens path and reads it with LoadBikesCSV.
func LoadBikesCSVFile(path string) ([]domain.BikeRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open bike dataset: %w", err)
	}
	defer f.Close()
	return LoadBikesCSV(f)
}
