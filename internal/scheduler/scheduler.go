package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"SolarSizer/internal/analysis"
	"SolarSizer/internal/collector"
	"SolarSizer/internal/recorder"
)

const (
	doneDir   = "done"
	failedDir = "failed"
)

// RunObserver is told how every queued run ended.
type RunObserver interface {
	RunFinished(source string, err error, elapsed time.Duration)
}

// Scheduler periodically drains an inbox directory of analysis requests.
// Each request is collected, analysed under a timeout and recorded; the file
// is then moved to done/ or failed/.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *analysis.Runner
	Recorder recorder.Recorder
	InboxDir string
	Timeout  time.Duration
	Observer RunObserver
	Ctx      context.Context

	log zerolog.Logger
	mu  sync.Mutex // one inbox scan at a time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *analysis.Runner, rec recorder.Recorder, inbox string, timeout time.Duration, obs RunObserver, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Recorder: rec,
		InboxDir: inbox,
		Timeout:  timeout,
		Observer: obs,
		Ctx:      ctx,
		log:      log,
	}
}

// Register schedules the inbox scan.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.ProcessInbox() }); err != nil {
		return fmt.Errorf("register inbox scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Str("inbox", s.InboxDir).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// ProcessInbox handles every request currently in the inbox and returns how
// many succeeded and failed.
func (s *Scheduler) ProcessInbox() (ok, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.pending()
	if err != nil {
		s.log.Error().Err(err).Msg("scan inbox")
		return 0, 0
	}
	for _, path := range files {
		if s.Ctx.Err() != nil {
			break
		}
		if err := s.process(path); err != nil {
			failed++
		} else {
			ok++
		}
	}
	if ok+failed > 0 {
		s.log.Info().Int("ok", ok).Int("failed", failed).Msg("inbox processed")
	}
	return ok, failed
}

func (s *Scheduler) pending() ([]string, error) {
	entries, err := os.ReadDir(s.InboxDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			out = append(out, filepath.Join(s.InboxDir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Scheduler) process(path string) error {
	start := time.Now()
	name := filepath.Base(path)
	logger := s.log.With().Str("request", name).Logger()

	runID, err := s.run(path, logger)
	if s.Observer != nil {
		s.Observer.RunFinished("inbox", err, time.Since(start))
	}

	if err != nil {
		logger.Error().Err(err).Msg("request failed")
		if mvErr := s.move(path, failedDir); mvErr != nil {
			logger.Error().Err(mvErr).Msg("move failed request")
		}
		reason := filepath.Join(s.InboxDir, failedDir, name+".err")
		if wErr := os.WriteFile(reason, []byte(err.Error()+"\n"), 0o644); wErr != nil {
			logger.Error().Err(wErr).Msg("write failure reason")
		}
		return err
	}

	logger.Info().Str("run", runID).Dur("elapsed", time.Since(start)).Msg("request completed")
	if err := s.move(path, doneDir); err != nil {
		logger.Error().Err(err).Msg("move completed request")
	}
	return nil
}

func (s *Scheduler) run(path string, logger zerolog.Logger) (string, error) {
	rf, err := analysis.LoadRequestFile(path)
	if err != nil {
		return "", err
	}
	src, err := rf.Source()
	if err != nil {
		return "", err
	}
	profile, err := collector.NewCollector(src, logger).Collect()
	if err != nil {
		return "", err
	}

	ctx := s.Ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	run, err := s.Runner.Run(ctx, rf.Request(profile))
	if err != nil {
		return "", err
	}
	if err := s.Recorder.RecordRun(run); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

func (s *Scheduler) move(path, sub string) error {
	dir := filepath.Join(s.InboxDir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}
