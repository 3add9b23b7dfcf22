package jsonfile

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
	"github.com/valutrade/valutrade-hub/internal/core/domain"
	portsrepo "github.com/valutrade/valutrade-hub/internal/core/ports/repositories"
)

const portfoliosFile = "portfolios.json"

// portfolioRecord is the persisted shape of one portfolio.
type portfolioRecord struct {
	UserID  int64                   `json:"user_id"`
	Wallets map[string]walletRecord `json:"wallets"`
}

type walletRecord struct {
	CurrencyCode string  `json:"currency_code"`
	Balance      float64 `json:"balance"`
}

func toPortfolioRecord(p domain.Portfolio) portfolioRecord {
	record := portfolioRecord{UserID: p.UserID, Wallets: make(map[string]walletRecord, len(p.Wallets))}
	for code, w := range p.Wallets {
		record.Wallets[code] = walletRecord{CurrencyCode: w.CurrencyCode, Balance: w.Balance.InexactFloat64()}
	}
	return record
}

func (r portfolioRecord) toDomain() domain.Portfolio {
	portfolio := domain.NewPortfolio(r.UserID)
	for code, w := range r.Wallets {
		portfolio.SetWallet(domain.Wallet{CurrencyCode: code, Balance: decimal.NewFromFloat(w.Balance)})
	}
	return portfolio
}

// PortfolioRepository persists portfolio records as a JSON array.
type PortfolioRepository struct {
	store *Store
}

// NewPortfolioRepository creates a PortfolioRepository over the store.
func NewPortfolioRepository(store *Store) *PortfolioRepository {
	return &PortfolioRepository{store: store}
}

func (r *PortfolioRepository) loadAll() ([]portfolioRecord, error) {
	var records []portfolioRecord
	if err := r.store.readJSON(portfoliosFile, &records); err != nil && !missingOrCorrupt(err) {
		return nil, err
	}
	return records, nil
}

// FindPortfolioByUserID retrieves the single portfolio owned by a user.
func (r *PortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	r.store.portfoliosMu.Lock()
	defer r.store.portfoliosMu.Unlock()

	records, err := r.loadAll()
	if err != nil {
		return nil, apperrors.NewPersistenceError("find portfolio", err)
	}
	for _, rec := range records {
		if rec.UserID == userID {
			portfolio := rec.toDomain()
			return &portfolio, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// SavePortfolio persists the portfolio and all of its wallets as one unit,
// replacing any previous record for the same user.
func (r *PortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	r.store.portfoliosMu.Lock()
	defer r.store.portfoliosMu.Unlock()

	records, err := r.loadAll()
	if err != nil {
		return apperrors.NewPersistenceError("save portfolio", err)
	}

	replaced := false
	for i, rec := range records {
		if rec.UserID == portfolio.UserID {
			records[i] = toPortfolioRecord(portfolio)
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, toPortfolioRecord(portfolio))
	}

	if err := r.store.writeJSON(portfoliosFile, records); err != nil {
		return apperrors.NewPersistenceError("save portfolio", err)
	}
	return nil
}

var _ portsrepo.PortfolioRepositoryFacade = (*PortfolioRepository)(nil)
