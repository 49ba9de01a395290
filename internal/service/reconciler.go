package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ahleite/plannito-bot/internal/model"
	"github.com/ahleite/plannito-bot/internal/store"
)

// AccountLister is the slice of the backend the reconciler needs.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]model.BankAccount, error)
}

// Reconciler periodically compares each user's optimistic local
// balance against whatever the backend reports, logging drift and
// adopting the backend value. The local copy is never authoritative;
// this makes the acceptable gap observable.
type Reconciler struct {
	store   *store.Store
	backend AccountLister
	logger  *slog.Logger
	cron    *cron.Cron
}

func NewReconciler(st *store.Store, backend AccountLister, logger *slog.Logger) *Reconciler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Reconciler{
		store:   st,
		backend: backend,
		logger:  logger,
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger))),
	}
}

// Start schedules the drift check. schedule is a cron spec, e.g.
// "@every 10m".
func (r *Reconciler) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		r.ReconcileOnce(ctx)
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("scheduled balance reconciliation", "schedule", schedule)
	return nil
}

// Stop halts the schedule and returns a context that is done once any
// running job finishes.
func (r *Reconciler) Stop() context.Context {
	return r.cron.Stop()
}

// ReconcileOnce runs a single pass over every user with a selected
// account.
func (r *Reconciler) ReconcileOnce(ctx context.Context) {
	users, err := r.store.Users()
	if err != nil {
		r.logger.Error("reconciliation could not list users", "err", err)
		return
	}
	if len(users) == 0 {
		return
	}

	accounts, err := r.backend.ListAccounts(ctx)
	if err != nil {
		r.logger.Error("reconciliation could not fetch accounts", "err", err)
		return
	}
	byID := make(map[string]model.BankAccount, len(accounts))
	for _, account := range accounts {
		byID[account.ID] = account
	}

	for _, userID := range users {
		local := r.store.Get(userID).SelectedAccount
		if local == nil {
			continue
		}
		remote, ok := byID[local.ID]
		if !ok {
			r.logger.Warn("selected account no longer exists on backend",
				"user", userID, "account", local.ID)
			continue
		}
		if local.Balance.Equal(remote.Balance) {
			continue
		}

		r.logger.Warn("balance drift detected, adopting backend value",
			"user", userID,
			"account", local.ID,
			"local", local.Balance.String(),
			"remote", remote.Balance.String())

		updated := *local
		updated.Balance = remote.Balance
		if err := r.store.SetSelectedAccount(userID, &updated); err != nil {
			r.logger.Error("failed to store reconciled balance", "user", userID, "err", err)
		}
	}
}
