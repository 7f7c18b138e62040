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

const verifiedPhonesCollection = "verified_phones"

type VerifiedPhoneRepository interface {
	Upsert(ctx context.Context, phone string, browserData map[string]any, now time.Time) error
	Get(ctx context.Context, phone string) (*models.VerifiedPhone, error)
}

type verifiedPhoneRepository struct {
	coll *mongo.Collection
}

func NewVerifiedPhoneRepository(db *mongo.Database) VerifiedPhoneRepository {
	return &verifiedPhoneRepository{coll: db.Collection(verifiedPhonesCollection)}
}

// Upsert merges a verification event into the per-phone document.
// last_verified_at / updated_at / browser_data move on every call;
// created_at and verified_at are written only when the document is new.
// Never deletes.
func (r *verifiedPhoneRepository) Upsert(ctx context.Context, phone string, browserData map[string]any, now time.Time) error {
	if browserData == nil {
		browserData = map[string]any{}
	}

	docID := utils.PhoneDigits(phone)
	update := bson.M{
		"$set": bson.M{
			"phone_number":     phone,
			"browser_data":     browserData,
			"last_verified_at": now,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"created_at":  now,
			"verified_at": now,
		},
	}

	_, err := r.coll.UpdateByID(ctx, docID, update, options.Update().SetUpsert(true))
	return err
}

// Get returns (nil, nil) when the phone has never been verified.
func (r *verifiedPhoneRepository) Get(ctx context.Context, phone string) (*models.VerifiedPhone, error) {
	docID := utils.PhoneDigits(phone)

	var rec models.VerifiedPhone
	err := r.coll.FindOne(ctx, bson.M{"_id": docID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
