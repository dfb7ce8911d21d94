package feed

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"myfinance/models"

	"github.com/go-mysql-org/go-mysql/replication"
	"github.com/shopspring/decimal"
)

const (
	banksTable        = "banks"
	transactionsTable = "transactions"
)

// mysqlTimeLayout is how go-mysql renders DATETIME/TIMESTAMP values when
// ParseTime is off.
const mysqlTimeLayout = "2006-01-02 15:04:05.999999"

func actionOf(eventType replication.EventType) (models.LedgerAction, bool) {
	switch eventType {
	case replication.WRITE_ROWS_EVENTv0, replication.WRITE_ROWS_EVENTv1, replication.WRITE_ROWS_EVENTv2:
		return models.ActionInsert, true
	case replication.UPDATE_ROWS_EVENTv0, replication.UPDATE_ROWS_EVENTv1, replication.UPDATE_ROWS_EVENTv2:
		return models.ActionUpdate, true
	case replication.DELETE_ROWS_EVENTv0, replication.DELETE_ROWS_EVENTv1, replication.DELETE_ROWS_EVENTv2:
		return models.ActionDelete, true
	}
	return "", false
}

// Decode turns a rows event on the banks or transactions table into ledger
// events. Rows of other tables yield nil. For UPDATE events the rows arrive
// as before/after pairs and the after image is reported.
func Decode(eventType replication.EventType, e *replication.RowsEvent) ([]models.LedgerEvent, error) {
	action, ok := actionOf(eventType)
	if !ok || e == nil || e.Table == nil {
		return nil, nil
	}
	schema, table := string(e.Table.Schema), string(e.Table.Table)
	if table != banksTable && table != transactionsTable {
		return nil, nil
	}

	step, offset := 1, 0
	if action == models.ActionUpdate {
		step, offset = 2, 1
	}

	events := make([]models.LedgerEvent, 0, len(e.Rows)/step)
	for i := offset; i < len(e.Rows); i += step {
		ev := models.LedgerEvent{Action: action, Schema: schema, Table: table}
		var err error
		if table == banksTable {
			ev.Bank, err = decodeBank(e.Rows[i])
		} else {
			ev.Transaction, err = decodeTransaction(e.Rows[i])
		}
		if err != nil {
			return nil, fmt.Errorf("Decode: %s.%s row %d: %w", schema, table, i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// col returns the i-th column, or nil when the row image is shorter.
func col(row []interface{}, i int) interface{} {
	if i < len(row) {
		return row[i]
	}
	return nil
}

// decodeBank reads a banks row: id, user_id, name, description, emoji, type, created_at.
func decodeBank(row []interface{}) (*models.Bank, error) {
	id, err := toInt64(col(row, 0))
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	createdAt, err := toTime(col(row, 6))
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	return &models.Bank{
		BankID:      id,
		UserID:      toNullString(col(row, 1)).String,
		Name:        toNullString(col(row, 2)).String,
		Description: toNullString(col(row, 3)),
		Emoji:       toNullString(col(row, 4)).String,
		Type:        models.BankType(toNullString(col(row, 5)).String),
		CreatedAt:   createdAt,
	}, nil
}

// decodeTransaction reads a transactions row: id, user_id, bank_id, amount,
// description, account_transferred_to_id, account_transferred_from_id, created_at.
func decodeTransaction(row []interface{}) (*models.Transaction, error) {
	id, err := toInt64(col(row, 0))
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	bankID, err := toInt64(col(row, 2))
	if err != nil {
		return nil, fmt.Errorf("bank_id: %w", err)
	}
	amount, err := toDecimal(col(row, 3))
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	to, err := toNullInt64(col(row, 5))
	if err != nil {
		return nil, fmt.Errorf("account_transferred_to_id: %w", err)
	}
	from, err := toNullInt64(col(row, 6))
	if err != nil {
		return nil, fmt.Errorf("account_transferred_from_id: %w", err)
	}
	createdAt, err := toTime(col(row, 7))
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	return &models.Transaction{
		TransactionID:            id,
		UserID:                   toNullString(col(row, 1)).String,
		BankID:                   bankID,
		Amount:                   amount,
		Description:              toNullString(col(row, 4)),
		AccountTransferredToID:   to,
		AccountTransferredFromID: from,
		CreatedAt:                createdAt,
	}, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("unexpected integer value %T", v)
}

func toNullInt64(v interface{}) (sql.NullInt64, error) {
	if v == nil {
		return sql.NullInt64{}, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func toNullString(v interface{}) sql.NullString {
	switch s := v.(type) {
	case string:
		return sql.NullString{String: s, Valid: true}
	case []byte:
		return sql.NullString{String: string(s), Valid: true}
	}
	return sql.NullString{}
}

// toDecimal accepts the decimal.Decimal produced with UseDecimal as well as
// the string form go-mysql emits without it.
func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch d := v.(type) {
	case decimal.Decimal:
		return d, nil
	case string:
		return decimal.NewFromString(d)
	case []byte:
		return decimal.NewFromString(string(d))
	case float64:
		return decimal.NewFromFloat(d), nil
	}
	return decimal.Zero, fmt.Errorf("unexpected decimal value %T", v)
}

func toTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case string:
		return time.ParseInLocation(mysqlTimeLayout, t, time.UTC)
	case fmt.Stringer:
		return time.ParseInLocation(mysqlTimeLayout, t.String(), time.UTC)
	}
	return time.Time{}, fmt.Errorf("unexpected time value %T", v)
}
