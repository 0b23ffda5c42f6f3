package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
)

// fakeUseCase implements usecase.RotatorUseCase for handler tests.
type fakeUseCase struct {
	config  domain.Config
	state   domain.RotationState
	rotated int
	lastAdd []string
}

func (f *fakeUseCase) Start(ctx context.Context) {}

func (f *fakeUseCase) Snapshot() domain.Snapshot {
	return domain.Snapshot{Config: f.config, State: f.state}
}

func (f *fakeUseCase) UpdateConfig(config domain.Config) error {
	f.config = config
	return nil
}

func (f *fakeUseCase) AddTargets(paths []string) ([]string, error) {
	f.lastAdd = paths
	f.config.FileTargets = append(f.config.FileTargets, paths...)
	return f.config.FileTargets, nil
}

func (f *fakeUseCase) RemoveTarget(path string) ([]string, error) {
	out := []string{}
	for _, p := range f.config.FileTargets {
		if p != path {
			out = append(out, p)
		}
	}
	f.config.FileTargets = out
	return out, nil
}

func (f *fakeUseCase) RotateNow() error {
	if len(f.config.FileTargets) == 0 {
		return domain.ErrNoTargets
	}
	f.rotated++
	return nil
}

func (f *fakeUseCase) RestoreOriginal() {}

func newTestServer(uc *fakeUseCase) *Server {
	return NewServer(uc, "127.0.0.1:0")
}

func TestGetConfig(t *testing.T) {
	uc := &fakeUseCase{config: domain.Config{
		Interval:    90 * time.Second,
		StartTime:   "09:00",
		Random:      true,
		FileTargets: []string{"/a.png"},
	}}
	srv := newTestServer(uc)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var view map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view["interval"].(float64) != 90 {
		t.Errorf("interval = %v, want 90 seconds", view["interval"])
	}
	if view["startDt"] != "09:00" {
		t.Errorf("startDt = %v", view["startDt"])
	}
	if view["random"] != true {
		t.Errorf("random = %v", view["random"])
	}
}

func TestPutConfigPartialUpdate(t *testing.T) {
	uc := &fakeUseCase{config: domain.Config{Interval: 60 * time.Second, Random: true}}
	srv := newTestServer(uc)

	body := strings.NewReader(`{"interval": 120, "random": false}`)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if uc.config.Interval != 120*time.Second {
		t.Errorf("interval = %v, want 2m", uc.config.Interval)
	}
	if uc.config.Random {
		t.Error("random not updated")
	}
}

func TestPutConfigLeavesUnsentFields(t *testing.T) {
	uc := &fakeUseCase{config: domain.Config{
		Interval:  60 * time.Second,
		StartTime: "09:00",
		Random:    true,
	}}
	srv := newTestServer(uc)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config",
		strings.NewReader(`{"random": false}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if uc.config.StartTime != "09:00" {
		t.Errorf("startDt = %q, want untouched", uc.config.StartTime)
	}
}

func TestPutConfigRejectsBadJSON(t *testing.T) {
	srv := newTestServer(&fakeUseCase{})

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config",
		strings.NewReader("{oops")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPostTargets(t *testing.T) {
	uc := &fakeUseCase{}
	srv := newTestServer(uc)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/targets",
		strings.NewReader(`{"paths": ["/pics"]}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(uc.lastAdd) != 1 || uc.lastAdd[0] != "/pics" {
		t.Errorf("AddTargets called with %v", uc.lastAdd)
	}
}

func TestDeleteTargetRequiresPath(t *testing.T) {
	srv := newTestServer(&fakeUseCase{})

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/targets", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteTarget(t *testing.T) {
	uc := &fakeUseCase{config: domain.Config{FileTargets: []string{"/a.png", "/b.png"}}}
	srv := newTestServer(uc)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		"/api/targets?path=%2Fa.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(uc.config.FileTargets) != 1 || uc.config.FileTargets[0] != "/b.png" {
		t.Errorf("targets = %v, want [/b.png]", uc.config.FileTargets)
	}
}

func TestRotateNow(t *testing.T) {
	uc := &fakeUseCase{config: domain.Config{FileTargets: []string{"/a.png"}}}
	srv := newTestServer(uc)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rotate", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if uc.rotated != 1 {
		t.Errorf("rotated = %d, want 1", uc.rotated)
	}
}

func TestRotateNowWithoutTargets(t *testing.T) {
	srv := newTestServer(&fakeUseCase{})

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rotate", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestStatusView(t *testing.T) {
	cursor := 2
	uc := &fakeUseCase{
		config: domain.Config{Random: false},
		state: domain.RotationState{
			Active:            true,
			Cursor:            &cursor,
			LastShown:         "/b.png",
			OriginalWallpaper: "/orig.png",
		},
	}
	srv := newTestServer(uc)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var view map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view["active"] != true || view["lastShown"] != "/b.png" {
		t.Errorf("status view = %v", view)
	}
	if view["nextIndex"].(float64) != 2 {
		t.Errorf("nextIndex = %v, want 2", view["nextIndex"])
	}
	if view["originalWallpaper"] != "/orig.png" {
		t.Errorf("originalWallpaper = %v", view["originalWallpaper"])
	}
}

func TestConfigViewOmitsUnsetFields(t *testing.T) {
	cfg := domain.DefaultConfig()
	view := ConfigView(cfg)

	for _, key := range []string{"startDt", "endDt", "weekly", "monthly", "defaultWallpaperPath"} {
		if _, ok := view[key]; ok {
			t.Errorf("view[%q] present, want omitted", key)
		}
	}
	if view["interval"] != int64(60) {
		t.Errorf("interval = %v, want 60", view["interval"])
	}
}

func TestConfigViewKeepsEmptySchedule(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Weekly = []string{}
	cfg.Monthly = []int{}

	view := ConfigView(cfg)
	weekly, ok := view["weekly"].([]string)
	if !ok || len(weekly) != 0 {
		t.Errorf("weekly = %v, want empty list", view["weekly"])
	}
	monthly, ok := view["monthly"].([]int)
	if !ok || len(monthly) != 0 {
		t.Errorf("monthly = %v, want empty list", view["monthly"])
	}
}
