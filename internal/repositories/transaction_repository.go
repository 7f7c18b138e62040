package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/models"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

const liveTransactionsCollection = "live_transactions"

type TransactionRepository interface {
	// FindLatestUnpaidSince returns the newest transaction for the phone
	// that has not received payment and was created at or after `since`,
	// or (nil, nil) when none qualifies.
	FindLatestUnpaidSince(ctx context.Context, phone string, since time.Time) (*models.Transaction, error)
	Insert(ctx context.Context, txn *models.Transaction) error
	UpdateQRGeneration(ctx context.Context, transactionID string, amount float64, browserData map[string]any, now time.Time) error
	TouchQRTimestamp(ctx context.Context, transactionID string, now time.Time) error
	Get(ctx context.Context, transactionID string) (*models.Transaction, error)
	DeleteStaleUnpaid(ctx context.Context, olderThan time.Time) (int64, error)
}

type transactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) TransactionRepository {
	return &transactionRepository{coll: db.Collection(liveTransactionsCollection)}
}

func (r *transactionRepository) FindLatestUnpaidSince(ctx context.Context, phone string, since time.Time) (*models.Transaction, error) {
	// Documents with a missing created_at never match $gte, which is
	// exactly the filter the correlation window wants.
	filter := bson.M{
		"phone_number":     phone,
		"payment_received": false,
		"created_at":       bson.M{"$gte": since},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var txn models.Transaction
	err := r.coll.FindOne(ctx, filter, opts).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) Insert(ctx context.Context, txn *models.Transaction) error {
	doc := bson.M{
		"_id":              txn.TransactionID,
		"transaction_id":   txn.TransactionID,
		"phone_number":     txn.PhoneNumber,
		"amount":           txn.Amount,
		"status":           txn.Status,
		"payment_received": txn.PaymentReceived,
		"payment_verified": txn.PaymentVerified,
		"browser_data":     txn.BrowserData,
		"created_at":       txn.CreatedAt,
		"last_qr_gen_at":   txn.LastQRGenAt,
		"updated_at":       txn.UpdatedAt,
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

// UpdateQRGeneration refreshes the reusable transaction in place when
// the client regenerates a QR inside the correlation window.
func (r *transactionRepository) UpdateQRGeneration(ctx context.Context, transactionID string, amount float64, browserData map[string]any, now time.Time) error {
	if browserData == nil {
		browserData = map[string]any{}
	}
	update := bson.M{"$set": bson.M{
		"amount":         amount,
		"browser_data":   browserData,
		"last_qr_gen_at": now,
		"updated_at":     now,
	}}
	res, err := r.coll.UpdateByID(ctx, transactionID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrTransactionNotFound
	}
	return nil
}

// TouchQRTimestamp sets last_qr_gen_at on an existing transaction.
// Unknown IDs surface as ErrTransactionNotFound so the caller can log
// and move on.
func (r *transactionRepository) TouchQRTimestamp(ctx context.Context, transactionID string, now time.Time) error {
	update := bson.M{"$set": bson.M{
		"last_qr_gen_at": now,
		"updated_at":     now,
	}}
	res, err := r.coll.UpdateByID(ctx, transactionID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.coll.FindOne(ctx, bson.M{"_id": transactionID}).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// DeleteStaleUnpaid removes abandoned pending transactions that never
// received payment. Paid rows are history and are never touched.
func (r *transactionRepository) DeleteStaleUnpaid(ctx context.Context, olderThan time.Time) (int64, error) {
	filter := bson.M{
		"payment_received": false,
		"created_at":       bson.M{"$lt": olderThan},
	}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
