package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/housie/internal/domain/ticket"
	"github.com/riskibarqy/housie/internal/platform/logging"
	"github.com/riskibarqy/housie/internal/platform/random"
)

type TicketServiceConfig struct {
	BatchMax int
	Workers  int
}

func DefaultTicketServiceConfig() TicketServiceConfig {
	return TicketServiceConfig{
		BatchMax: 100,
		Workers:  8,
	}
}

type TicketService struct {
	random random.Source
	cfg    TicketServiceConfig
	logger *logging.Logger
}

func NewTicketService(src random.Source, cfg TicketServiceConfig, logger *logging.Logger) *TicketService {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultTicketServiceConfig()
	if cfg.BatchMax < 1 {
		cfg.BatchMax = defaults.BatchMax
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaults.Workers
	}

	return &TicketService{
		random: src,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *TicketService) BatchMax() int {
	return s.cfg.BatchMax
}

func (s *TicketService) Generate(ctx context.Context) (ticket.Ticket, error) {
	_, span := startUsecaseSpan(ctx, "usecase.TicketService.Generate")
	defer span.End()

	return s.generateOne()
}

// GenerateBatch builds count independent tickets on a bounded worker pool.
// Tickets come back in submission order.
func (s *TicketService) GenerateBatch(ctx context.Context, count int) ([]ticket.Ticket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TicketService.GenerateBatch")
	defer span.End()

	if count < 1 || count > s.cfg.BatchMax {
		return nil, fmt.Errorf("%w: ticket count must be between 1 and %d", ErrInvalidInput, s.cfg.BatchMax)
	}

	pool, err := ants.NewPool(min(s.cfg.Workers, count))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	out := make([]ticket.Ticket, count)
	var (
		firstErr error
		errOnce  sync.Once
		workers  sync.WaitGroup
	)

	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}

		idx := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			item, err := s.generateOne()
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			out[idx] = item
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit ticket to worker pool: %w", err)
		}
	}

	workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	s.logger.DebugContext(ctx, "ticket batch generated", "count", count)

	return out, nil
}

func (s *TicketService) generateOne() (ticket.Ticket, error) {
	item, err := ticket.Generate(s.random)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("generate ticket: %w", err)
	}
	if err := ticket.Validate(item); err != nil {
		return ticket.Ticket{}, fmt.Errorf("generate ticket: %w", err)
	}

	return item, nil
}
