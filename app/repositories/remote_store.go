package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/pkg/database"
)

// RemoteStore reads and writes the "products" and "transactions" tables of
// the cloud database. Reads are full-table selects; writes touch a single row
// by primary key.
type RemoteStore struct {
	db *gorm.DB
}

func NewRemoteStore(db *gorm.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

// OpenRemoteStore connects to endpoint with credential and verifies the link.
func OpenRemoteStore(ctx context.Context, endpoint, credential string) (*RemoteStore, error) {
	driver, dsn, err := database.ParseEndpoint(endpoint, credential)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewRemoteStore(db), nil
}

func (r *RemoteStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	err := r.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (r *RemoteStore) UpsertProduct(ctx context.Context, p models.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&p).Error
}

func (r *RemoteStore) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).Error
}

func (r *RemoteStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	out := []models.Transaction{}
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Find(&out).Error
	return out, err
}

func (r *RemoteStore) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	return r.db.WithContext(ctx).Create(&tx).Error
}

// Provision creates the two tables when they are missing. It is an operator
// action (till remote:provision), never run implicitly.
func (r *RemoteStore) Provision(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.Product{}, &models.Transaction{})
}

func (r *RemoteStore) Close() error {
	return database.Close(r.db)
}
