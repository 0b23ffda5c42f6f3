package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
)

func newTestRepo(t *testing.T) (*FileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	return repo, path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	repo, _ := newTestRepo(t)

	config, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Interval != domain.DefaultInterval {
		t.Errorf("Interval = %v, want %v", config.Interval, domain.DefaultInterval)
	}
	if !config.Random {
		t.Error("Random = false, want default true")
	}
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	repo, path := newTestRepo(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Interval != domain.DefaultInterval || !config.Random {
		t.Errorf("corrupt file did not yield defaults: %+v", config)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	in := domain.Config{
		Interval:         90 * time.Second,
		StartTime:        "09:00",
		EndTime:          "18:30",
		Weekly:           []string{"mon", "wed"},
		Monthly:          []int{1, 15},
		DefaultWallpaper: "/fallback.png",
		FileTargets:      []string{"/a.png", "/b.png"},
		Random:           false,
		WindowWidth:      800,
		WindowHeight:     600,
		WindowMinimized:  true,
	}
	if err := repo.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Interval != in.Interval || out.StartTime != in.StartTime || out.EndTime != in.EndTime {
		t.Errorf("schedule fields did not round trip: %+v", out)
	}
	if len(out.Weekly) != 2 || len(out.Monthly) != 2 {
		t.Errorf("weekly/monthly did not round trip: %+v", out)
	}
	if len(out.FileTargets) != 2 || out.FileTargets[0] != "/a.png" {
		t.Errorf("fileTargets did not round trip: %v", out.FileTargets)
	}
	if out.Random != false || out.DefaultWallpaper != "/fallback.png" {
		t.Errorf("mode/default did not round trip: %+v", out)
	}
	if out.WindowWidth != 800 || out.WindowHeight != 600 || !out.WindowMinimized {
		t.Errorf("window geometry did not round trip: %+v", out)
	}
}

func TestMissingIntervalKeyMeansDefault(t *testing.T) {
	repo, path := newTestRepo(t)
	if err := os.WriteFile(path, []byte(`{"random": false, "fileTargets": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if config.Interval != domain.DefaultInterval {
		t.Errorf("Interval = %v, want default when the key is absent", config.Interval)
	}
}

func TestExplicitZeroIntervalIsPreserved(t *testing.T) {
	repo, path := newTestRepo(t)
	if err := os.WriteFile(path, []byte(`{"interval": 0, "fileTargets": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	// The stored zero survives; coercion to 60s is the loop's job, on every
	// cycle.
	if config.Interval != 0 {
		t.Errorf("Interval = %v, want 0 preserved at rest", config.Interval)
	}
	if config.EffectiveInterval() != domain.DefaultInterval {
		t.Errorf("EffectiveInterval = %v, want %v", config.EffectiveInterval(), domain.DefaultInterval)
	}
}

func TestSaveDeduplicatesTargets(t *testing.T) {
	repo, _ := newTestRepo(t)

	in := domain.DefaultConfig()
	in.FileTargets = []string{"/a.png", "/b.png", "/a.png"}
	if err := repo.Save(in); err != nil {
		t.Fatal(err)
	}

	out, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(out.FileTargets) != 2 {
		t.Errorf("FileTargets = %v, want duplicates dropped at save time", out.FileTargets)
	}
}

func TestNilScheduleSlicesStayNil(t *testing.T) {
	repo, _ := newTestRepo(t)

	if err := repo.Save(domain.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	out, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	// nil means "unrestricted" and must not come back as an empty list,
	// which would mean "never".
	if out.Weekly != nil || out.Monthly != nil {
		t.Errorf("weekly=%v monthly=%v, want both nil", out.Weekly, out.Monthly)
	}
}

func TestEmptyScheduleSlicesSurviveRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	in := domain.DefaultConfig()
	in.Weekly = []string{}
	in.Monthly = []int{}

	now := time.Now()
	if domain.ShouldRun(now, in) {
		t.Fatal("ShouldRun = true for empty weekly, want false")
	}

	if err := repo.Save(in); err != nil {
		t.Fatal(err)
	}
	out, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	// Empty means "match no day" and must not come back as nil, which
	// would mean "unrestricted" and resume rotation after a restart.
	if out.Weekly == nil || len(out.Weekly) != 0 {
		t.Errorf("Weekly = %v, want empty non-nil", out.Weekly)
	}
	if out.Monthly == nil || len(out.Monthly) != 0 {
		t.Errorf("Monthly = %v, want empty non-nil", out.Monthly)
	}
	if domain.ShouldRun(now, out) {
		t.Error("ShouldRun = true after reload, want false")
	}
}
