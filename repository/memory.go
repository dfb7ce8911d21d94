package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"myfinance/models"

	"github.com/shopspring/decimal"
)

// MemoryStore keeps users, banks and the ledger in process memory. It
// implements BankRepository, TransactionRepository and UserRepository and is
// used when no database is configured, and by tests.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]models.User
	banks        []models.Bank
	transactions []models.Transaction
	nextBankID   int64
	nextTxID     int64
	now          func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		now:   time.Now,
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.UserID]; exists {
		return errors.New("CreateUser: user already exists")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = m.now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, userID string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, exists := m.users[userID]
	if !exists {
		return models.User{}, fmt.Errorf("GetUserByID: no user with ID %s: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (m *MemoryStore) CreateBank(_ context.Context, bank models.Bank) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bank.Emoji == "" {
		bank.Emoji = models.DefaultEmoji
	}
	if bank.Type == "" {
		bank.Type = models.BankTypeWallet
	}
	m.nextBankID++
	bank.BankID = m.nextBankID
	bank.CreatedAt = m.now()
	m.banks = append(m.banks, bank)
	return bank.BankID, nil
}

func (m *MemoryStore) GetBanksForUser(_ context.Context, userID string) ([]models.Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []models.Bank{}
	for _, b := range m.banks {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *MemoryStore) GetBankBalances(_ context.Context, userID string) ([]models.BankBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []models.BankBalance{}
	for _, b := range m.banks {
		if b.UserID != userID {
			continue
		}
		bb := models.BankBalance{BankID: b.BankID, Name: b.Name, Emoji: b.Emoji, Net: decimal.Zero}
		for _, t := range m.transactions {
			if t.BankID == b.BankID && t.UserID == userID {
				bb.Net = bb.Net.Add(t.Amount)
				bb.Count++
			}
		}
		result = append(result, bb)
	}
	return result, nil
}

// ownsLocked reports whether bankID exists and belongs to userID. Callers hold m.mu.
func (m *MemoryStore) ownsLocked(userID string, bankID int64) bool {
	for _, b := range m.banks {
		if b.BankID == bankID {
			return b.UserID == userID
		}
	}
	return false
}

func (m *MemoryStore) appendLocked(t models.Transaction) int64 {
	m.nextTxID++
	t.TransactionID = m.nextTxID
	t.CreatedAt = m.now()
	m.transactions = append(m.transactions, t)
	return t.TransactionID
}

func (m *MemoryStore) CreateTransaction(_ context.Context, t models.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ownsLocked(t.UserID, t.BankID) {
		return 0, fmt.Errorf("CreateTransaction: bank %d of user %s: %w", t.BankID, t.UserID, ErrNotFound)
	}
	return m.appendLocked(t), nil
}

// CreateTransfer appends both legs under one write lock, so readers never
// observe a single leg.
func (m *MemoryStore) CreateTransfer(_ context.Context, userID string, fromBankID, toBankID int64, amount decimal.Decimal, description sql.NullString) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ownsLocked(userID, fromBankID) || !m.ownsLocked(userID, toBankID) {
		return fmt.Errorf("CreateTransfer: banks %d, %d of user %s: %w", fromBankID, toBankID, userID, ErrNotFound)
	}
	m.appendLocked(models.Transaction{
		UserID:                 userID,
		BankID:                 fromBankID,
		Amount:                 amount.Abs().Neg(),
		Description:            description,
		AccountTransferredToID: sql.NullInt64{Int64: toBankID, Valid: true},
	})
	m.appendLocked(models.Transaction{
		UserID:                   userID,
		BankID:                   toBankID,
		Amount:                   amount.Abs(),
		Description:              description,
		AccountTransferredFromID: sql.NullInt64{Int64: fromBankID, Valid: true},
	})
	return nil
}

func (m *MemoryStore) bankLocked(bankID int64) models.Bank {
	for _, b := range m.banks {
		if b.BankID == bankID {
			return b
		}
	}
	return models.Bank{}
}

func (m *MemoryStore) GetRecentTransactions(_ context.Context, userID string, limit int) ([]models.TransactionWithBank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := []models.TransactionWithBank{}
	for _, t := range m.transactions {
		if t.UserID != userID {
			continue
		}
		b := m.bankLocked(t.BankID)
		results = append(results, models.TransactionWithBank{Transaction: t, BankName: b.Name, BankEmoji: b.Emoji})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].TransactionID > results[j].TransactionID
	})
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MemoryStore) GetTotals(_ context.Context, userID string) (models.Totals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	totals := models.Totals{Sum: decimal.Zero}
	for _, t := range m.transactions {
		if t.UserID == userID {
			totals.Sum = totals.Sum.Add(t.Amount)
			totals.Count++
		}
	}
	return totals, nil
}

func (m *MemoryStore) GetTransactionsForBank(_ context.Context, userID string, bankID int64) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []models.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID && t.BankID == bankID {
			result = append(result, t)
		}
	}
	return result, nil
}
