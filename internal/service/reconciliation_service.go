package service

import (
	"context"
	"fmt"
	"io"

	"myfinance/internal/util"
	"myfinance/models"
	"myfinance/repository"

	"go.uber.org/zap"
)

// ReconciliationReport groups the outcome of comparing a statement with the ledger.
type ReconciliationReport struct {
	Matched         []string
	Mismatched      []string // same type, different amount
	OnlyInLedger    []string
	OnlyInStatement []string
}

// ReconciliationService defines the interface for reconciliation business logic.
type ReconciliationService interface {
	ReconcileStatement(ctx context.Context, userID string, bankID int64, csvFilePath string) (ReconciliationReport, error)
}

// reconciliationServiceImpl implements ReconciliationService.
type reconciliationServiceImpl struct {
	transactionRepo repository.TransactionRepository
	dataLoader      util.DataLoader
	log             *zap.Logger
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(transactionRepo repository.TransactionRepository, dataLoader util.DataLoader, logger *zap.Logger) ReconciliationService {
	return &reconciliationServiceImpl{
		transactionRepo: transactionRepo,
		dataLoader:      dataLoader,
		log:             logger,
	}
}

// ledgerType maps a ledger row onto the statement vocabulary.
func ledgerType(t models.Transaction) string {
	switch {
	case t.AccountTransferredFromID.Valid:
		return "TRANSFER_IN"
	case t.AccountTransferredToID.Valid:
		return "TRANSFER_OUT"
	case t.Amount.IsNegative():
		return "LOSS"
	default:
		return "PROFIT"
	}
}

// ReconcileStatement compares the CSV statement at csvFilePath with the
// ledger rows of one bank. Amounts are compared by magnitude.
func (s *reconciliationServiceImpl) ReconcileStatement(ctx context.Context, userID string, bankID int64, csvFilePath string) (ReconciliationReport, error) {
	var report ReconciliationReport

	external, err := s.dataLoader.LoadExternalTransactions(csvFilePath)
	if err != nil {
		return report, fmt.Errorf("ReconcileStatement: failed to load external transactions: %w", err)
	}
	ledger, err := s.transactionRepo.GetTransactionsForBank(ctx, userID, bankID)
	if err != nil {
		return report, fmt.Errorf("ReconcileStatement: failed to fetch ledger rows: %w", err)
	}
	s.log.Info("ReconciliationService: comparing statement",
		zap.Int("statement_rows", len(external)), zap.Int("ledger_rows", len(ledger)), zap.Int64("bank_id", bankID))

	processedLedger := make(map[int64]bool)
	processedCSV := make(map[int]bool)

	// Pass 1: exact match on type and magnitude.
	for _, lt := range ledger {
		typ := ledgerType(lt)
		for i, et := range external {
			if processedCSV[i] || et.Type != typ || !et.Amount.Abs().Equal(lt.Amount.Abs()) {
				continue
			}
			report.Matched = append(report.Matched, fmt.Sprintf("MATCH: ledger ID %d (%s %s) with statement ID %s (%s %s, Ref: %s)",
				lt.TransactionID, lt.Amount.StringFixed(2), typ, et.ExternalID, et.Amount.StringFixed(2), et.Type, et.Reference))
			processedLedger[lt.TransactionID] = true
			processedCSV[i] = true
			break
		}
	}

	// Pass 2: same type, different amount.
	for _, lt := range ledger {
		if processedLedger[lt.TransactionID] {
			continue
		}
		typ := ledgerType(lt)
		for i, et := range external {
			if processedCSV[i] || et.Type != typ {
				continue
			}
			report.Mismatched = append(report.Mismatched, fmt.Sprintf("MISMATCH_AMOUNT: ledger ID %d (%s %s) vs statement ID %s (%s %s, Ref: %s)",
				lt.TransactionID, lt.Amount.StringFixed(2), typ, et.ExternalID, et.Amount.StringFixed(2), et.Type, et.Reference))
			processedLedger[lt.TransactionID] = true
			processedCSV[i] = true
			break
		}
	}

	for _, lt := range ledger {
		if !processedLedger[lt.TransactionID] {
			report.OnlyInLedger = append(report.OnlyInLedger, fmt.Sprintf("ledger ID: %d, Type: %s, Amount: %s, Desc: %s",
				lt.TransactionID, ledgerType(lt), lt.Amount.StringFixed(2), lt.Description.String))
		}
	}
	for i, et := range external {
		if !processedCSV[i] {
			report.OnlyInStatement = append(report.OnlyInStatement, fmt.Sprintf("statement ID: %s, Type: %s, Amount: %s, Ref: %s",
				et.ExternalID, et.Type, et.Amount.StringFixed(2), et.Reference))
		}
	}
	return report, nil
}

// WriteTo renders the report as plain text.
func (r ReconciliationReport) WriteTo(w io.Writer) (int64, error) {
	var total int64
	section := func(title string, items []string) error {
		n, err := fmt.Fprintf(w, "\n[%s]\n", title)
		total += int64(n)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			items = []string{"None"}
		}
		for _, item := range items {
			n, err := fmt.Fprintf(w, "  %s\n", item)
			total += int64(n)
			if err != nil {
				return err
			}
		}
		return nil
	}

	sections := []struct {
		title string
		items []string
	}{
		{"Transactions Found in Both (Exact Match on Type & Amount)", r.Matched},
		{"Potential Matches with Mismatched Amounts (Same Type)", r.Mismatched},
		{"Transactions Only in Ledger", r.OnlyInLedger},
		{"Transactions Only in Statement", r.OnlyInStatement},
	}
	for _, s := range sections {
		if err := section(s.title, s.items); err != nil {
			return total, err
		}
	}
	return total, nil
}
