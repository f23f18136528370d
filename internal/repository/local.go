package repository

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/paylist/payments-api/internal/model"
	"go.uber.org/zap"
)

// LocalRepository serves payments from a JSON-array file on disk. The file is
// read and parsed once on first access and the dataset is cached for the
// process lifetime; it is never written back.
//
// A missing or malformed file is not fatal: the repository logs a warning and
// behaves as an empty store from then on.
type LocalRepository struct {
	path   string
	logger *zap.Logger

	loadOnce sync.Once
	payments []model.Payment
}

// NewLocalRepository creates a repository backed by the JSON file at path.
func NewLocalRepository(path string, logger *zap.Logger) *LocalRepository {
	return &LocalRepository{
		path:   path,
		logger: logger,
	}
}

// NewLocalRepositoryFromData creates a repository pre-loaded with the given
// dataset, bypassing the file read. Intended for tests.
func NewLocalRepositoryFromData(payments []model.Payment, logger *zap.Logger) *LocalRepository {
	r := &LocalRepository{
		logger:   logger,
		payments: payments,
	}
	r.loadOnce.Do(func() {})
	return r
}

func (r *LocalRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		r.logger.Warn("Could not load local payments data",
			zap.String("path", r.path),
			zap.Error(err),
		)
		return
	}

	var payments []model.Payment
	if err := json.Unmarshal(data, &payments); err != nil {
		r.logger.Warn("Could not parse local payments data",
			zap.String("path", r.path),
			zap.Error(err),
		)
		return
	}

	r.payments = payments
}

func (r *LocalRepository) ScanAll(ctx context.Context) ([]model.Payment, error) {
	r.loadOnce.Do(r.load)
	return r.payments, nil
}

func (r *LocalRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	r.loadOnce.Do(r.load)

	for i := range r.payments {
		if r.payments[i].ID == id {
			return &r.payments[i], nil
		}
	}
	return nil, nil
}
