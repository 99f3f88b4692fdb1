package filerepo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// snapshot документ, целиком хранящийся в файле.
type snapshot struct {
	Accounts     map[int64]*accountRecord      `json:"accounts"`
	Transactions map[string]*transactionRecord `json:"transactions"`
	Deals        map[string]*dealRecord        `json:"deals"`
	Invoices     map[string]string             `json:"invoices"`
	Ledger       []ledgerRecord                `json:"ledger"`
	LedgerSeq    int64                         `json:"ledger_seq"`
}

type accountRecord struct {
	ID             int64              `json:"id"`
	Username       string             `json:"username"`
	DisplayName    string             `json:"display_name"`
	Balance        decimal.Decimal    `json:"balance"`
	Suspension     *domain.Suspension `json:"suspension,omitempty"`
	TransactionIDs []string           `json:"transactions"`
	DealIDs        []string           `json:"deals"`
	CreatedAt      time.Time          `json:"created_at"`
	LastActiveAt   time.Time          `json:"last_active_at"`
}

type transactionRecord struct {
	ID          string                       `json:"id"`
	AccountID   int64                        `json:"account_id"`
	Amount      decimal.Decimal              `json:"amount"`
	Kind        domain.TransactionKind       `json:"kind"`
	Status      domain.TransactionStatusType `json:"status"`
	CreatedAt   time.Time                    `json:"created_at"`
	CompletedAt *time.Time                   `json:"completed_at,omitempty"`
	Deposit     *domain.DepositDetails       `json:"deposit,omitempty"`
	Withdraw    *domain.WithdrawDetails      `json:"withdraw,omitempty"`
}

type dealRecord struct {
	ID                    string                `json:"id"`
	InitiatorID           int64                 `json:"initiator_id"`
	CounterpartyID        int64                 `json:"counterparty_id"`
	Amount                decimal.Decimal       `json:"amount"`
	Terms                 string                `json:"terms"`
	Status                domain.DealStatusType `json:"status"`
	InitiatorConfirmed    bool                  `json:"initiator_confirmed"`
	CounterpartyConfirmed bool                  `json:"counterparty_confirmed"`
	DisputedBy            int64                 `json:"disputed_by,omitempty"`
	Resolution            *domain.Resolution    `json:"resolution,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	FundedAt              *time.Time            `json:"funded_at,omitempty"`
	CompletedAt           *time.Time            `json:"completed_at,omitempty"`
}

type ledgerRecord struct {
	ID           int64                  `json:"id"`
	AccountID    int64                  `json:"account_id"`
	Amount       decimal.Decimal        `json:"amount"`
	BalanceAfter decimal.Decimal        `json:"balance_after"`
	Reason       domain.EntryReasonType `json:"reason"`
	Reference    string                 `json:"reference"`
	Actor        int64                  `json:"actor"`
	CreatedAt    time.Time              `json:"created_at"`
}

func newSnapshot() *snapshot {
	return &snapshot{
		Accounts:     make(map[int64]*accountRecord),
		Transactions: make(map[string]*transactionRecord),
		Deals:        make(map[string]*dealRecord),
		Invoices:     make(map[string]string),
		Ledger:       make([]ledgerRecord, 0),
	}
}

// normalize заполняет nil коллекции, которые могли прийти из файла старого формата.
func (s *snapshot) normalize() {
	if s.Accounts == nil {
		s.Accounts = make(map[int64]*accountRecord)
	}
	if s.Transactions == nil {
		s.Transactions = make(map[string]*transactionRecord)
	}
	if s.Deals == nil {
		s.Deals = make(map[string]*dealRecord)
	}
	if s.Invoices == nil {
		s.Invoices = make(map[string]string)
	}
	if s.Ledger == nil {
		s.Ledger = make([]ledgerRecord, 0)
	}
}

// clone возвращает глубокую копию документа. Единица работы изменяет только копию.
func (s *snapshot) clone() *snapshot {
	c := &snapshot{
		Accounts:     make(map[int64]*accountRecord, len(s.Accounts)),
		Transactions: make(map[string]*transactionRecord, len(s.Transactions)),
		Deals:        make(map[string]*dealRecord, len(s.Deals)),
		Invoices:     make(map[string]string, len(s.Invoices)),
		Ledger:       make([]ledgerRecord, len(s.Ledger)),
		LedgerSeq:    s.LedgerSeq,
	}
	for id, a := range s.Accounts {
		c.Accounts[id] = a.clone()
	}
	for id, t := range s.Transactions {
		c.Transactions[id] = t.clone()
	}
	for id, d := range s.Deals {
		c.Deals[id] = d.clone()
	}
	for k, v := range s.Invoices {
		c.Invoices[k] = v
	}
	copy(c.Ledger, s.Ledger)
	return c
}

func (a *accountRecord) clone() *accountRecord {
	c := *a
	if a.Suspension != nil {
		s := *a.Suspension
		c.Suspension = &s
	}
	c.TransactionIDs = append([]string(nil), a.TransactionIDs...)
	c.DealIDs = append([]string(nil), a.DealIDs...)
	return &c
}

func (t *transactionRecord) clone() *transactionRecord {
	c := *t
	c.CompletedAt = cloneTime(t.CompletedAt)
	if t.Deposit != nil {
		d := *t.Deposit
		c.Deposit = &d
	}
	if t.Withdraw != nil {
		w := *t.Withdraw
		c.Withdraw = &w
	}
	return &c
}

func (d *dealRecord) clone() *dealRecord {
	c := *d
	c.FundedAt = cloneTime(d.FundedAt)
	c.CompletedAt = cloneTime(d.CompletedAt)
	if d.Resolution != nil {
		r := *d.Resolution
		c.Resolution = &r
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// loadSnapshot читает документ из файла. Отсутствующий файл означает пустое хранилище.
func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newSnapshot(), nil
		}
		return nil, errors.Wrapf(err, "read data file %s", path)
	}
	s := newSnapshot()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrapf(err, "decode data file %s", path)
	}
	s.normalize()
	return s, nil
}

// saveSnapshot атомарно записывает документ: временный файл в той же директории, fsync и rename.
func saveSnapshot(path string, s *snapshot) (err error) {
	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
		return errors.Wrapf(mkErr, "create data dir %s", dir)
	}

	tmp, tmpErr := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if tmpErr != nil {
		return errors.Wrap(tmpErr, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(s); encErr != nil {
		_ = tmp.Close()
		return errors.Wrap(encErr, "encode snapshot")
	}
	if syncErr := tmp.Sync(); syncErr != nil {
		_ = tmp.Close()
		return errors.Wrap(syncErr, "sync temp file")
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return errors.Wrap(closeErr, "close temp file")
	}
	if renameErr := os.Rename(tmpName, path); renameErr != nil {
		return errors.Wrapf(renameErr, "replace data file %s", path)
	}
	return nil
}
