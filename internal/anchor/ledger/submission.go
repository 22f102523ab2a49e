package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"go.uber.org/zap"
)

type submissionState int

const (
	stateSubmitted submissionState = iota
	stateAwaitingConfirmation
	stateResolved
	stateFailed
)

func (s submissionState) String() string {
	switch s {
	case stateSubmitted:
		return "submitted"
	case stateAwaitingConfirmation:
		return "awaiting_confirmation"
	case stateResolved:
		return "resolved"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type metadataBuilder func(ctx context.Context, receipt *model.Receipt) (model.Metadata, error)

// submission follows one transaction until its metadata is known. It resolves
// exactly once; notifications arriving afterwards are ignored.
type submission struct {
	txHash      string
	maxAttempts int
	build       metadataBuilder
	logger      *zap.Logger

	mu       sync.Mutex
	state    submissionState
	attempts int
	receipt  *model.Receipt
	lastErr  error

	once sync.Once
	done chan struct{}
	meta model.Metadata
	err  error
}

func newSubmission(txHash string, maxAttempts int, logger *zap.Logger, build metadataBuilder) *submission {
	return &submission{
		txHash:      txHash,
		maxAttempts: maxAttempts,
		build:       build,
		logger:      logger,
		state:       stateSubmitted,
		done:        make(chan struct{}),
	}
}

// await consumes notifications until the submission resolves or ctx ends.
func (s *submission) await(ctx context.Context, notifications <-chan model.TxNotification) (model.Metadata, error) {
	go s.drain(ctx, notifications)

	select {
	case <-s.done:
	case <-ctx.Done():
		s.fail(ctx.Err())
		<-s.done
	}
	return s.meta, s.err
}

func (s *submission) drain(ctx context.Context, notifications <-chan model.TxNotification) {
	for {
		select {
		case <-s.done:
			return
		case n, ok := <-notifications:
			if !ok {
				s.closed()
				return
			}
			s.handle(ctx, n)
		}
	}
}

func (s *submission) handle(ctx context.Context, n model.TxNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateResolved || s.state == stateFailed {
		return
	}

	switch n.Kind {
	case model.TxError:
		err := n.Err
		if err == nil {
			err = errors.New("transaction rejected")
		}
		s.resolveLocked(model.Metadata{}, fmt.Errorf("tx %s: %w: %w", s.txHash, model.ErrSubmissionFailed, err))
	case model.TxConfirmation:
		if s.receipt == nil && n.Receipt != nil {
			s.receipt = n.Receipt
		}
		s.state = stateAwaitingConfirmation
		s.attempts++

		if s.receipt == nil {
			s.lastErr = errors.New("confirmation without receipt")
		} else if meta, err := s.build(ctx, s.receipt); err == nil {
			s.resolveLocked(meta, nil)
			return
		} else {
			s.lastErr = err
		}

		s.logger.Debug("metadata not ready",
			zap.Stringer("state", s.state),
			zap.Int("attempt", s.attempts),
			zap.Uint64("confirmations", n.Confirmations),
			zap.Error(s.lastErr),
		)
		if s.attempts >= s.maxAttempts {
			s.resolveLocked(model.Metadata{}, fmt.Errorf("tx %s after %d confirmations: %w: %w",
				s.txHash, s.attempts, model.ErrMetadataUnresolved, s.lastErr))
		}
	}
}

func (s *submission) closed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateResolved || s.state == stateFailed {
		return
	}
	err := fmt.Errorf("tx %s: notifications closed after %d confirmations: %w", s.txHash, s.attempts, model.ErrMetadataUnresolved)
	if s.lastErr != nil {
		err = fmt.Errorf("%w: %w", err, s.lastErr)
	}
	s.resolveLocked(model.Metadata{}, err)
}

func (s *submission) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveLocked(model.Metadata{}, err)
}

func (s *submission) resolveLocked(meta model.Metadata, err error) {
	s.once.Do(func() {
		if err != nil {
			s.state = stateFailed
		} else {
			s.state = stateResolved
		}
		s.meta, s.err = meta, err
		close(s.done)
	})
}
