package usecase

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
	"github.com/sou1ka/wallpaper-changer/internal/logging"
	"github.com/sou1ka/wallpaper-changer/internal/targets"
)

// RotatorUseCase is the primary port for wallpaper rotation operations.
// This represents the application's use cases.
type RotatorUseCase interface {
	Start(ctx context.Context)
	Snapshot() domain.Snapshot
	UpdateConfig(config domain.Config) error
	AddTargets(paths []string) ([]string, error)
	RemoveTarget(path string) ([]string, error)
	RotateNow() error
	RestoreOriginal()
}

// rotator implements RotatorUseCase.
// It depends only on the domain layer and secondary ports.
type rotator struct {
	repo       domain.ConfigRepository
	controller domain.WallpaperController
	fsys       afero.Fs

	mu     sync.Mutex
	config domain.Config
	state  domain.RotationState

	// wake is the single-slot reconfiguration interrupt. The loop races it
	// against the interval timer, so a config change takes effect within one
	// scheduler wake. Back-to-back updates before a wake coalesce.
	wake chan struct{}
}

// NewRotatorUseCase loads the configuration, captures the wallpaper currently
// in effect, and prepares the rotation loop. Dependencies are injected
// (secondary ports).
func NewRotatorUseCase(
	repo domain.ConfigRepository,
	controller domain.WallpaperController,
	fsys afero.Fs,
) (RotatorUseCase, error) {
	config, err := repo.Load()
	if err != nil {
		return nil, err
	}

	r := &rotator{
		repo:       repo,
		controller: controller,
		fsys:       fsys,
		config:     config,
		state: domain.RotationState{
			LastRandom: config.Random,
		},
		wake: make(chan struct{}, 1),
	}

	if current, err := controller.Current(); err != nil {
		logging.Warnf("could not capture current wallpaper: %v", err)
	} else {
		r.state.OriginalWallpaper = current
	}

	return r, nil
}

// Start launches the rotation loop.
func (r *rotator) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *rotator) loop(ctx context.Context) {
	for {
		interval := r.runCycle(time.Now())

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-r.wake:
			timer.Stop()
		}
	}
}

// runCycle executes one decision cycle and returns how long to sleep until
// the next one. The mutex is never held across a controller call.
func (r *rotator) runCycle(now time.Time) time.Duration {
	r.mu.Lock()
	cfg := r.config
	r.mu.Unlock()

	switch {
	case len(cfg.FileTargets) == 0:
		// Nothing to rotate through: drop out of rotation and forget the
		// sequential position entirely.
		r.deactivate(true)
	case !domain.ShouldRun(now, cfg):
		// Outside the schedule window. Cursor and last-shown survive so a
		// sequential run resumes where it paused.
		r.deactivate(false)
	case cfg.Random:
		r.showRandom(cfg.FileTargets)
	default:
		r.showSequential(cfg.FileTargets)
	}

	return cfg.EffectiveInterval()
}

// deactivate restores the original wallpaper if rotation was overriding it.
// clearTracking additionally resets the sequential cursor and last-shown path.
func (r *rotator) deactivate(clearTracking bool) {
	r.mu.Lock()
	wasActive := r.state.Active
	r.state.Active = false
	if clearTracking {
		r.state.Cursor = nil
		r.state.LastShown = ""
	}
	restore := r.restorePathLocked()
	r.mu.Unlock()

	if wasActive && restore != "" {
		logging.Debugf("rotation inactive, restoring %s", restore)
		r.apply(restore)
	}
}

// restorePathLocked returns what to put back when rotation stops. Falls back
// to the configured default wallpaper when the startup capture failed.
func (r *rotator) restorePathLocked() string {
	if r.state.OriginalWallpaper != "" {
		return r.state.OriginalWallpaper
	}
	return r.config.DefaultWallpaper
}

func (r *rotator) showRandom(list []string) {
	choice := list[rand.IntN(len(list))]

	r.mu.Lock()
	r.state.Active = true
	r.state.Cursor = nil
	r.state.LastShown = choice
	r.state.LastRandom = true
	r.mu.Unlock()

	logging.Tracef("random pick: %s", choice)
	r.apply(choice)
}

func (r *rotator) showSequential(list []string) {
	r.mu.Lock()
	r.state.Active = true
	needSeed := r.state.Cursor == nil
	lastShown := r.state.LastShown
	wasRandom := r.state.LastRandom
	r.mu.Unlock()

	// When random mode just ended, continue from the position after the last
	// image it showed instead of jumping back to the start of the list. With
	// no record of a last pick, fall back to locating the wallpaper that is
	// on screen right now; failing that, start at the top.
	var seed int
	if needSeed {
		switch {
		case lastShown != "":
			seed = indexAfter(list, lastShown)
		case wasRandom:
			if current, err := r.controller.Current(); err == nil && current != "" {
				seed = indexAfter(list, current)
			}
		}
	}

	r.mu.Lock()
	if r.state.Cursor == nil {
		r.state.Cursor = &seed
	}
	r.state.LastRandom = false

	// Modulo the current length: the list may have shrunk while the cursor
	// was parked across an inactive period.
	i := *r.state.Cursor % len(list)
	path := list[i]
	r.state.LastShown = path
	next := (i + 1) % len(list)
	r.state.Cursor = &next
	r.mu.Unlock()

	logging.Tracef("sequential pick %d/%d: %s", i, len(list), path)
	r.apply(path)
}

// indexAfter returns the index following path in list, wrapping around, or 0
// when path is not present.
func indexAfter(list []string, path string) int {
	for i, p := range list {
		if p == path {
			return (i + 1) % len(list)
		}
	}
	return 0
}

// apply sets the wallpaper as a soft-failure operation: an error is logged
// and the cycle carries on. The next tick retries implicitly.
func (r *rotator) apply(path string) {
	if err := r.controller.Set(path); err != nil {
		logging.Warnf("set wallpaper %s: %v", path, err)
	}
}

// Snapshot returns a copy of the current configuration and rotation state.
func (r *rotator) Snapshot() domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.state
	if state.Cursor != nil {
		c := *state.Cursor
		state.Cursor = &c
	}
	return domain.Snapshot{Config: r.config, State: state}
}

// UpdateConfig validates, installs, and persists a new configuration, then
// wakes the loop so the change takes effect immediately. A persistence
// failure is returned to the caller but the running loop already follows the
// new configuration.
func (r *rotator) UpdateConfig(config domain.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	config.FileTargets = domain.DedupeTargets(config.FileTargets)

	r.mu.Lock()
	r.config = config
	r.state.LastRandom = config.Random
	r.mu.Unlock()

	err := r.repo.Save(config)
	r.notify()
	return err
}

// AddTargets expands the given files and directories into image paths,
// merges them into the target list, persists, and wakes the loop.
func (r *rotator) AddTargets(paths []string) ([]string, error) {
	found := targets.Collect(r.fsys, paths)

	r.mu.Lock()
	merged := targets.Merge(r.config.FileTargets, found)
	r.config.FileTargets = merged
	config := r.config
	r.mu.Unlock()

	err := r.repo.Save(config)
	r.notify()
	return merged, err
}

// RemoveTarget drops a single path from the target list, persists, and wakes
// the loop.
func (r *rotator) RemoveTarget(path string) ([]string, error) {
	r.mu.Lock()
	remaining := targets.Remove(r.config.FileTargets, path)
	r.config.FileTargets = remaining
	config := r.config
	r.mu.Unlock()

	err := r.repo.Save(config)
	r.notify()
	return remaining, err
}

// RotateNow performs one selection immediately, ignoring the schedule window.
// The periodic loop is left undisturbed.
func (r *rotator) RotateNow() error {
	r.mu.Lock()
	cfg := r.config
	fresh := r.state.Cursor == nil && r.state.LastShown == ""
	r.mu.Unlock()

	if len(cfg.FileTargets) == 0 {
		return domain.ErrNoTargets
	}
	if cfg.Random {
		r.showRandom(cfg.FileTargets)
		return nil
	}

	// A one-shot process arrives here with no cursor and no pick history,
	// so without help every invocation would show the first target. Seed
	// from whatever is on screen to walk the list across invocations.
	if fresh {
		if current, err := r.controller.Current(); err == nil && current != "" {
			seed := indexAfter(cfg.FileTargets, current)
			r.mu.Lock()
			if r.state.Cursor == nil && r.state.LastShown == "" {
				r.state.Cursor = &seed
			}
			r.mu.Unlock()
		}
	}
	r.showSequential(cfg.FileTargets)
	return nil
}

// RestoreOriginal puts back the wallpaper captured at startup. Safe to call
// at any point; restoring is idempotent, so the exit path does not need to
// coordinate with a cycle in flight.
func (r *rotator) RestoreOriginal() {
	r.mu.Lock()
	r.state.Active = false
	restore := r.restorePathLocked()
	r.mu.Unlock()

	if restore != "" {
		r.apply(restore)
	}
}

func (r *rotator) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}
