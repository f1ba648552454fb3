package usecase

import (
	"fmt"
	"sync"
	"time"

	"freeland/internal/entity"
	"freeland/internal/realtime"
	"freeland/internal/repo/persistent"
	"freeland/pkg/logger"
)

const transferProgressStep = 10

// TransferSimulator drives accepted transfers to completion. Each transfer
// gets its own goroutine advancing progress by a fixed step per tick; the
// balance movement happens atomically on the tick that reaches 100. Ticks
// take the shared engine mutex so they interleave with actions at whole-tick
// granularity.
type TransferSimulator struct {
	repo     persistent.TransferRepository
	sender   EventSender
	logger   *logger.Logger
	interval time.Duration
	mu       *sync.Mutex
}

func NewTransferSimulator(
	repo persistent.TransferRepository,
	sender EventSender,
	log *logger.Logger,
	interval time.Duration,
	mu *sync.Mutex,
) *TransferSimulator {
	return &TransferSimulator{
		repo:     repo,
		sender:   sender,
		logger:   log,
		interval: interval,
		mu:       mu,
	}
}

// Launch starts ticking a transfer in the background. The caller must have
// already persisted it.
func (s *TransferSimulator) Launch(transferID string) {
	go s.run(transferID)
}

// ResumePending restarts the simulation for every transfer that was in
// flight when the process last stopped. An accepted transfer always
// completes, across restarts.
func (s *TransferSimulator) ResumePending() error {
	transfers, err := s.repo.ListPending()
	if err != nil {
		return fmt.Errorf("list pending transfers: %w", err)
	}
	for _, t := range transfers {
		s.Launch(t.ID)
	}
	if len(transfers) > 0 {
		s.logger.Info("Resumed %d pending transfers", len(transfers))
	}
	return nil
}

func (s *TransferSimulator) run(transferID string) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		done, err := s.Tick(transferID)
		if err != nil {
			// A transfer has no failure state, so keep ticking and retry.
			s.logger.Error("Transfer %s tick failed: %v", transferID, err)
			continue
		}
		if done {
			return
		}
	}
}

// Tick advances one transfer by one step. It re-fetches the row rather than
// trusting in-memory progress, so restarts and resumed transfers pick up
// where they left off. Returns true when the transfer is settled.
func (s *TransferSimulator) Tick(transferID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		transfer  *entity.Transfer
		settled   bool
		fromCoins int
		toCoins   int
	)
	err := s.repo.Transaction(func(r persistent.TransferRepository) error {
		var err error
		transfer, err = r.GetTransfer(transferID)
		if err != nil {
			return err
		}
		if transfer.Status == entity.TransferComplete {
			return nil
		}

		transfer.Progress += transferProgressStep
		if transfer.Progress > 100 {
			transfer.Progress = 100
		}
		if err := r.UpdateProgress(transferID, transfer.Progress); err != nil {
			return err
		}
		if transfer.Progress < 100 {
			return nil
		}

		// Settlement: both balances move in the same transaction as the
		// status flip, so it happens exactly once.
		if err := r.AdjustCoins(transfer.FromID, -transfer.Amount); err != nil {
			return err
		}
		if err := r.AdjustCoins(transfer.ToID, transfer.Amount); err != nil {
			return err
		}
		if err := r.CompleteTransfer(transferID); err != nil {
			return err
		}
		settled = true

		if fromCoins, err = r.GetCoins(transfer.FromID); err != nil {
			return err
		}
		toCoins, err = r.GetCoins(transfer.ToID)
		return err
	})
	if err != nil {
		return false, err
	}
	if transfer.Status == entity.TransferComplete && !settled {
		return true, nil
	}

	progress := realtime.NewEvent(realtime.EventProgress, map[string]interface{}{
		"id": transfer.ID,
		"p":  transfer.Progress,
	})
	s.sender.SendToUser(transfer.FromID, progress)
	s.sender.SendToUser(transfer.ToID, progress)

	if settled {
		s.sender.SendToUser(transfer.FromID,
			realtime.BalanceEvent(fromCoins, fmt.Sprintf("Sent %d coins!", transfer.Amount)))
		s.sender.SendToUser(transfer.ToID,
			realtime.BalanceEvent(toCoins, fmt.Sprintf("Received %d coins!", transfer.Amount)))
	}
	return settled, nil
}
