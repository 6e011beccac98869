package payout

import (
	"context"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/logger"
	"github.com/fairlaunch/curve-registry/internal/registry"
)

// journalSink records outbound native-currency transfers. Registry custody is
// book-entry: the ledger is authoritative for who is owed what, and actual
// disbursement is executed by a downstream treasury process that consumes the
// journaled events. The sink therefore never rejects a transfer.
type journalSink struct{}

// NewJournalSink creates a payout sink that journals transfers to the log
func NewJournalSink() registry.PayoutSink {
	return &journalSink{}
}

func (s *journalSink) Pay(ctx context.Context, to domain.Address, amount *uint256.Int) error {
	logger.InfoCtx(ctx, "Disbursing native currency",
		zap.String("recipient", to.String()),
		zap.String("amount", amount.String()),
	)
	return nil
}
