package service

import (
    "context"
    "log"
    "time"

    "github.com/studynest/cabin-booking/internal/clock"
    "github.com/studynest/cabin-booking/internal/queue"
)

// Sweeper periodically deletes holds past their TTL.  It is hygiene only:
// expiry is already enforced by wall-clock predicates on every read and
// write path, so the sweep can run at a relaxed interval and a missed
// tick never admits a stale hold.
type Sweeper struct {
    store    Store
    clk      clock.Clock
    pub      Publisher
    interval time.Duration
    stopCh   chan struct{}
    doneCh   chan struct{}
}

// NewSweeper builds a sweeper that runs every interval.
func NewSweeper(store Store, clk clock.Clock, pub Publisher, interval time.Duration) *Sweeper {
    return &Sweeper{
        store:    store,
        clk:      clk,
        pub:      pub,
        interval: interval,
        stopCh:   make(chan struct{}),
        doneCh:   make(chan struct{}),
    }
}

// Run loops until Stop is called.  Intended to be launched in its own
// goroutine.
func (s *Sweeper) Run() {
    defer close(s.doneCh)
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ticker.C:
            s.sweep()
        case <-s.stopCh:
            return
        }
    }
}

// Stop signals the loop to exit and waits for the in-flight sweep to
// finish.
func (s *Sweeper) Stop() {
    close(s.stopCh)
    <-s.doneCh
}

func (s *Sweeper) sweep() {
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    now := s.clk.Now()
    expired, err := s.store.DeleteExpiredHolds(ctx, now)
    if err != nil {
        log.Printf("sweeper: delete expired holds: %v", err)
        return
    }
    if len(expired) == 0 {
        return
    }
    log.Printf("sweeper: removed %d expired hold rows", len(expired))
    if s.pub == nil {
        return
    }

    // One event per group, not per row.
    type groupInfo struct {
        ev queue.HoldExpiredEvent
    }
    groups := make(map[string]*groupInfo)
    order := make([]string, 0)
    for _, h := range expired {
        g, ok := groups[h.GroupID]
        if !ok {
            g = &groupInfo{ev: queue.HoldExpiredEvent{
                GroupID:   h.GroupID,
                UserID:    h.UserID,
                CabinID:   h.CabinID,
                HeldUntil: h.HeldUntil.Format(time.RFC3339),
                ExpiredAt: now.Format(time.RFC3339),
            }}
            groups[h.GroupID] = g
            order = append(order, h.GroupID)
        }
        g.ev.Batches = append(g.ev.Batches, string(h.BatchType))
    }
    for _, id := range order {
        if err := s.pub.PublishHoldExpired(ctx, groups[id].ev); err != nil {
            log.Printf("sweeper: publish hold.expired for group %s: %v", id, err)
        }
    }
}
