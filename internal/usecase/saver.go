package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/moneyfye/moneyfye/internal/infrastructure/metrics"
)

// SaverConfig bounds the retry behavior of background snapshot writes.
type SaverConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultSaverConfig returns retry bounds suitable for local stores.
func DefaultSaverConfig() SaverConfig {
	return SaverConfig{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  30 * time.Second,
	}
}

// saver flushes ledger snapshots for a single owner in the background.
// Mutations never wait on storage: enqueue replaces any pending blob, so at
// most one write is in flight and one is queued, and the queued one is
// always the newest.
type saver struct {
	store   SnapshotStore
	ownerID string
	cfg     SaverConfig
	metrics *metrics.Metrics
	logger  zerolog.Logger

	pending chan []byte
	wg      sync.WaitGroup
	once    sync.Once
}

func newSaver(store SnapshotStore, ownerID string, cfg SaverConfig, m *metrics.Metrics, logger zerolog.Logger) *saver {
	s := &saver{
		store:   store,
		ownerID: ownerID,
		cfg:     cfg,
		metrics: m,
		logger:  logger.With().Str("owner_id", ownerID).Logger(),
		pending: make(chan []byte, saverQueueDepth),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// enqueue schedules a snapshot for persistence. If a blob is already queued
// it is replaced; the superseded state never needs to hit storage.
func (s *saver) enqueue(data []byte) {
	for {
		select {
		case s.pending <- data:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// close stops the saver after draining any queued snapshot.
func (s *saver) close() {
	s.once.Do(func() {
		close(s.pending)
	})
	s.wg.Wait()
}

func (s *saver) loop() {
	defer s.wg.Done()
	for data := range s.pending {
		s.save(data)
	}
}

func (s *saver) save(data []byte) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialInterval
	b.MaxInterval = s.cfg.MaxInterval
	b.MaxElapsedTime = s.cfg.MaxElapsedTime

	start := time.Now()
	attempt := 0
	err := backoff.Retry(func() error {
		err := s.store.Save(context.Background(), s.ownerID, data)
		if err != nil {
			attempt++
			s.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("snapshot save failed, retrying")
		}
		return err
	}, b)

	if s.metrics != nil {
		if err != nil {
			s.metrics.SnapshotSaves.WithLabelValues("failure").Inc()
		} else {
			s.metrics.SnapshotSaves.WithLabelValues("success").Inc()
			s.metrics.SnapshotSaveDuration.Observe(time.Since(start).Seconds())
			s.metrics.SnapshotSizeBytes.Observe(float64(len(data)))
		}
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("bytes", len(data)).
			Msg("snapshot save gave up, state kept in memory only")
	}
}
