package services

import (
	"context"
	"time"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/repositories"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

// TransactionCleanupService removes abandoned pending transactions that
// never received payment. Runs off the daily cron. Pending codes and
// rate-limit counters expire on their own via Redis TTLs.
type TransactionCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type transactionCleanupService struct {
	txnRepo repositories.TransactionRepository
	cfg     *config.Config
}

func NewTransactionCleanupService(txnRepo repositories.TransactionRepository, cfg *config.Config) TransactionCleanupService {
	return &transactionCleanupService{txnRepo: txnRepo, cfg: cfg}
}

func (s *transactionCleanupService) CleanupDaily(ctx context.Context) error {
	olderThan := time.Now().Add(-s.cfg.StaleTransactionAge)
	deleted, err := s.txnRepo.DeleteStaleUnpaid(ctx, olderThan)
	if err != nil {
		return err
	}
	if deleted > 0 {
		utils.Logger.Infof("Cleaned up %d stale unpaid transactions older than %v", deleted, s.cfg.StaleTransactionAge)
	}
	return nil
}
