package ipmeta

import (
	"context"
	"fmt"
	"net"
	"time"
)

type fetchRequest struct {
	ctx      context.Context
	ip       net.IP
	index    int
	provider Provider
	results  chan<- fetchResult
}

type fetchResult struct {
	index  int
	record *Record
}

// fetchOne runs a single provider call on the worker pool. A provider
// error is logged and contributes nothing.
func (l *Lookuper) fetchOne(args interface{}) {
	req := args.(*fetchRequest)
	res := fetchResult{index: req.index}

	if record, err := req.provider.Lookup(req.ctx, req.ip); err != nil {
		l.logger.LookupError(req.ip, req.provider.Name(), err)
	} else {
		res.record = &record
	}

	select {
	case <-req.ctx.Done():
	case req.results <- res:
	}
}

// fetch is the hedging scheduler. It launches the primary wave at once,
// the supplementary wave after the stagger delay, and collects whatever
// completes before the overall deadline. Cancelling the shared context
// at that deadline aborts the in-flight network calls of the rest.
//
// Completed records come back in fan-out order regardless of arrival
// order, so the merge downstream is deterministic for a fixed set of
// in-time results.
func (l *Lookuper) fetch(ctx context.Context, ip net.IP) []Record {
	ctx, cancel := context.WithTimeout(ctx, l.deadline)
	defer cancel()

	results := make(chan fetchResult, len(l.providers))

	split := l.waveSize
	if split > len(l.providers) {
		split = len(l.providers)
	}

	launched := l.launch(ctx, ip, l.providers[:split], 0, results)

	if split < len(l.providers) {
		timer := time.NewTimer(l.stagger)

		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
			launched += l.launch(ctx, ip, l.providers[split:], split, results)
		}
	}

	byIndex := make([]*Record, len(l.providers))

collect:
	for received := 0; received < launched; received++ {
		select {
		case <-ctx.Done():
			break collect
		case res := <-results:
			byIndex[res.index] = res.record
		}
	}

	rv := make([]Record, 0, len(byIndex))

	for _, record := range byIndex {
		if record != nil {
			rv = append(rv, *record)
		}
	}

	return rv
}

func (l *Lookuper) launch(ctx context.Context,
	ip net.IP,
	wave []Provider,
	offset int,
	results chan<- fetchResult) int {
	launched := 0

	for i, provider := range wave {
		req := &fetchRequest{
			ctx:      ctx,
			ip:       ip,
			index:    offset + i,
			provider: provider,
			results:  results,
		}

		if err := l.workerPool.Invoke(req); err != nil {
			l.logger.LookupError(ip, provider.Name(),
				fmt.Errorf("cannot schedule a task: %w", err))

			continue
		}

		launched++
	}

	return launched
}
