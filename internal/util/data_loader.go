package util

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"myfinance/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DataLoader defines the interface for loading external statements.
type DataLoader interface {
	LoadExternalTransactions(filePath string) ([]models.ExternalTransaction, error)
}

// statementLoader implements DataLoader for statements laid out as
// external_id,amount,type,reference with a header row, stored either as CSV
// or as the first sheet of an .xlsx workbook.
type statementLoader struct {
	log *zap.Logger
}

// NewStatementLoader creates a new statement loader.
func NewStatementLoader(logger *zap.Logger) DataLoader {
	return &statementLoader{log: logger}
}

// LoadExternalTransactions reads transactions from a CSV or XLSX file,
// chosen by extension.
func (l *statementLoader) LoadExternalTransactions(filePath string) ([]models.ExternalTransaction, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		return l.loadXLSX(filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("LoadExternalTransactions: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()
	return ReadExternalTransactions(file, l.log)
}

func (l *statementLoader) loadXLSX(filePath string) ([]models.ExternalTransaction, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("LoadExternalTransactions: failed to open workbook %s: %w", filePath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []models.ExternalTransaction{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("LoadExternalTransactions: failed to read sheet %s: %w", sheets[0], err)
	}

	transactions := []models.ExternalTransaction{}
	for i, row := range rows {
		if i == 0 { // Skip header row
			continue
		}
		if tx, ok := parseRecord(row, l.log); ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

// ReadExternalTransactions parses CSV statement rows from r. Rows with too
// few columns or an unparsable amount are skipped with a warning.
func ReadExternalTransactions(r io.Reader, logger *zap.Logger) ([]models.ExternalTransaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil { // Skip header row
		if errors.Is(err, io.EOF) {
			return []models.ExternalTransaction{}, nil
		}
		return nil, fmt.Errorf("ReadExternalTransactions: failed to read header: %w", err)
	}

	transactions := []models.ExternalTransaction{}
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("ReadExternalTransactions: error reading record: %w", err)
		}
		if tx, ok := parseRecord(record, logger); ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

func parseRecord(record []string, logger *zap.Logger) (models.ExternalTransaction, bool) {
	if len(record) < 4 {
		logger.Warn("DataLoader: skipping malformed record", zap.Strings("record", record))
		return models.ExternalTransaction{}, false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		logger.Warn("DataLoader: skipping record with invalid amount",
			zap.String("amount", record[1]), zap.Error(err))
		return models.ExternalTransaction{}, false
	}

	return models.ExternalTransaction{
		ExternalID: strings.TrimSpace(record[0]),
		Amount:     amount,
		Type:       strings.TrimSpace(strings.ToUpper(record[2])),
		Reference:  strings.TrimSpace(record[3]),
	}, true
}
