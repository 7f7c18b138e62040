package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/models"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/repositories"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

const qrImageSize = 512

// PaymentService builds UPI payment QR codes and correlates repeated
// QR generations with a single pending transaction row.
type PaymentService interface {
	// Correlate finds-or-creates the pending transaction for a phone
	// and amount. Within the correlation window the existing unpaid
	// transaction is refreshed in place (is_new=false); otherwise a new
	// row is minted (is_new=true).
	Correlate(ctx context.Context, phone string, amount float64, browserData map[string]any) (transactionID string, isNew bool, err error)
	// TouchQRTimestamp is best-effort: unknown IDs are logged, never
	// surfaced.
	TouchQRTimestamp(ctx context.Context, transactionID string)
	BuildUPIURL(amount float64, merchantName, transactionNote string) string
	GenerateQRDataURI(content string) (string, error)
}

type paymentService struct {
	txnRepo repositories.TransactionRepository
	cfg     *config.Config
}

func NewPaymentService(txnRepo repositories.TransactionRepository, cfg *config.Config) PaymentService {
	return &paymentService{txnRepo: txnRepo, cfg: cfg}
}

func (s *paymentService) Correlate(ctx context.Context, phone string, amount float64, browserData map[string]any) (string, bool, error) {
	now := time.Now()
	since := now.Add(-s.cfg.CorrelationWindow)

	existing, err := s.txnRepo.FindLatestUnpaidSince(ctx, phone, since)
	if err != nil {
		return "", false, fmt.Errorf("query recent transactions: %w", err)
	}

	if existing != nil {
		if err := s.txnRepo.UpdateQRGeneration(ctx, existing.TransactionID, amount, browserData, now); err != nil {
			return "", false, fmt.Errorf("refresh transaction %s: %w", existing.TransactionID, err)
		}
		utils.Logger.Infof("Reusing transaction %s for %s", existing.TransactionID, phone)
		return existing.TransactionID, false, nil
	}

	txn := &models.Transaction{
		TransactionID:   newTransactionID(phone, now),
		PhoneNumber:     phone,
		Amount:          amount,
		Status:          models.TransactionStatusPending,
		PaymentReceived: false,
		PaymentVerified: false,
		BrowserData:     browserData,
		CreatedAt:       now,
		LastQRGenAt:     now,
		UpdatedAt:       now,
	}
	if err := s.txnRepo.Insert(ctx, txn); err != nil {
		return "", false, fmt.Errorf("insert transaction: %w", err)
	}
	utils.Logger.Infof("New transaction %s for %s", txn.TransactionID, phone)
	return txn.TransactionID, true, nil
}

func (s *paymentService) TouchQRTimestamp(ctx context.Context, transactionID string) {
	if err := s.txnRepo.TouchQRTimestamp(ctx, transactionID, time.Now()); err != nil {
		utils.Logger.WithError(err).Warnf("QR timestamp refresh skipped for transaction %s", transactionID)
	}
}

// BuildUPIURL renders the upi://pay deep link a banking app consumes.
// Parameter order (pa, am, pn, tn) matches what UPI apps expect.
func (s *paymentService) BuildUPIURL(amount float64, merchantName, transactionNote string) string {
	u := "upi://pay?pa=" + url.QueryEscape(s.cfg.UPIID)
	if amount > 0 {
		u += "&am=" + strconv.FormatFloat(amount, 'f', 2, 64)
	}
	if merchantName != "" {
		u += "&pn=" + url.QueryEscape(merchantName)
	}
	if transactionNote != "" {
		u += "&tn=" + url.QueryEscape(transactionNote)
	}
	return u
}

func (s *paymentService) GenerateQRDataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.High, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("encode QR: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// newTransactionID mints a collision-resistant ID from the phone
// digits, the unix timestamp, and a random suffix.
func newTransactionID(phone string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", utils.PhoneDigits(phone), now.Unix(), utils.RandomString(6))
}
