// Package batch runs the per-transaction enrichment loop: card fee matching,
// network fee matching, and cost arithmetic over a whole file.
package batch

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/merchantiq/feecost/internal/domain"
	"github.com/merchantiq/feecost/internal/fees"
	"github.com/merchantiq/feecost/internal/feetable"
)

// parallelThreshold is the row count above which Process shards across
// workers. Below it the goroutine overhead is not worth it.
const parallelThreshold = 500

// Processor enriches transaction records against injected fee tables. It is
// stateless apart from the read-only tables and safe for concurrent use.
type Processor struct {
	cards   *fees.CardMatcher
	network *fees.NetworkMatcher
	logger  *zap.Logger
	workers int
}

func NewProcessor(tables *feetable.Registry, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		cards:   fees.NewCardMatcher(tables),
		network: fees.NewNetworkMatcher(tables),
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
}

// Process enriches every record in input order. Each record is independent:
// results land in a slice indexed by input position, so ordering is
// preserved whether the batch runs sequentially or across workers.
func (p *Processor) Process(records []domain.TransactionRecord, mcc int) []domain.EnrichedRecord {
	out := make([]domain.EnrichedRecord, len(records))

	if len(records) >= parallelThreshold && p.workers > 1 {
		var wg sync.WaitGroup
		chunk := (len(records) + p.workers - 1) / p.workers
		for start := 0; start < len(records); start += chunk {
			end := start + chunk
			if end > len(records) {
				end = len(records)
			}
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				for i := start; i < end; i++ {
					out[i] = p.enrich(records[i], mcc)
				}
			}(start, end)
		}
		wg.Wait()
	} else {
		for i, rec := range records {
			out[i] = p.enrich(rec, mcc)
		}
	}

	matched := 0
	for i := range out {
		if out[i].MatchFound {
			matched++
		}
	}
	p.logger.Info("batch processed",
		zap.Int("records", len(records)),
		zap.Int("matched", matched),
		zap.Int("mcc", mcc),
	)
	return out
}

// enrich prices a single record. Card and network fee resolution are
// independent tracks: a miss on one never suppresses the other, and
// total_cost is always their sum.
func (p *Processor) enrich(rec domain.TransactionRecord, mcc int) domain.EnrichedRecord {
	out := domain.EnrichedRecord{TransactionRecord: rec, MCC: mcc}

	// Refunds and voids never incur fees.
	if rec.Amount.Sign() <= 0 {
		return out
	}

	if rule, ok := p.cards.Match(rec.CardBrand, rec.CardType, mcc, rec.Amount); ok {
		out.Product = rule.Product
		out.PercentRate = rule.PercentRate
		out.FixedRate = rule.FixedRate
		out.MaxFee = rule.MaxFee
		out.CardCost = fees.Cost(rec.Amount, rule.PercentRate, rule.FixedRate, rule.MaxFee)
		out.MatchFound = true
	}

	if rate, ok := p.network.Match(rec.CardBrand, rec.CardType, rec.Amount); ok {
		out.NetworkPercentRate = rate.PercentRate
		out.NetworkFixedRate = rate.FixedRate
		out.NetworkCost = fees.Cost(rec.Amount, rate.PercentRate, rate.FixedRate, nil)
	}

	out.TotalCost = out.CardCost.Add(out.NetworkCost)
	return out
}
