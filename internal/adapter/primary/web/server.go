package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
	"github.com/sou1ka/wallpaper-changer/internal/usecase"
)

// Server is a primary adapter that exposes the HTTP API + UI.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.RotatorUseCase
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.RotatorUseCase, addr string) *Server {
	mux := http.NewServeMux()
	srv := &Server{usecase: uc}
	mux.HandleFunc("/api/config", srv.handleConfig)
	mux.HandleFunc("/api/targets", srv.handleTargets)
	mux.HandleFunc("/api/rotate", srv.handleRotate)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/", srv.handleRoot)

	srv.server = &http.Server{
		Addr:    addr,
		Handler: loggingMiddleware(mux),
	}
	return srv
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, ConfigView(s.usecase.Snapshot().Config))
	case http.MethodPut:
		var req updatePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		config := s.usecase.Snapshot().Config

		if req.Interval != nil {
			config.Interval = time.Duration(*req.Interval) * time.Second
		}
		if req.StartDt != nil {
			config.StartTime = *req.StartDt
		}
		if req.EndDt != nil {
			config.EndTime = *req.EndDt
		}
		if req.Weekly != nil {
			config.Weekly = *req.Weekly
		}
		if req.Monthly != nil {
			config.Monthly = *req.Monthly
		}
		if req.Random != nil {
			config.Random = *req.Random
		}
		if req.DefaultWallpaperPath != nil {
			config.DefaultWallpaper = *req.DefaultWallpaperPath
		}
		if req.WindowWidth != nil {
			config.WindowWidth = *req.WindowWidth
		}
		if req.WindowHeight != nil {
			config.WindowHeight = *req.WindowHeight
		}
		if req.WindowMinimized != nil {
			config.WindowMinimized = *req.WindowMinimized
		}

		if err := s.usecase.UpdateConfig(config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, ConfigView(s.usecase.Snapshot().Config))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, map[string]any{
			"fileTargets": targetsOrEmpty(s.usecase.Snapshot().Config.FileTargets),
		})
	case http.MethodPost:
		var req struct {
			Paths []string `json:"paths"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		list, err := s.usecase.AddTargets(req.Paths)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"fileTargets": targetsOrEmpty(list)})
	case http.MethodDelete:
		path := r.URL.Query().Get("path")
		if path == "" {
			http.Error(w, "path query parameter is required", http.StatusBadRequest)
			return
		}
		list, err := s.usecase.RemoveTarget(path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"fileTargets": targetsOrEmpty(list)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.usecase.RotateNow(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	respondJSON(w, http.StatusOK, stateToView(s.usecase.Snapshot()))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, stateToView(s.usecase.Snapshot()))
}

// ConfigView renders cfg in the external camelCase shape shared by the
// HTTP API and the CLI. Unset optional fields are omitted.
func ConfigView(cfg domain.Config) map[string]any {
	view := map[string]any{
		"interval":    int64(cfg.Interval / time.Second),
		"random":      cfg.Random,
		"fileTargets": targetsOrEmpty(cfg.FileTargets),
	}
	if cfg.StartTime != "" {
		view["startDt"] = cfg.StartTime
	}
	if cfg.EndTime != "" {
		view["endDt"] = cfg.EndTime
	}
	if cfg.Weekly != nil {
		view["weekly"] = cfg.Weekly
	}
	if cfg.Monthly != nil {
		view["monthly"] = cfg.Monthly
	}
	if cfg.DefaultWallpaper != "" {
		view["defaultWallpaperPath"] = cfg.DefaultWallpaper
	}
	return view
}

func stateToView(snap domain.Snapshot) map[string]any {
	view := map[string]any{
		"active": snap.State.Active,
		"random": snap.Config.Random,
	}
	if snap.State.LastShown != "" {
		view["lastShown"] = snap.State.LastShown
	}
	if snap.State.Cursor != nil {
		view["nextIndex"] = *snap.State.Cursor
	}
	if snap.State.OriginalWallpaper != "" {
		view["originalWallpaper"] = snap.State.OriginalWallpaper
	}
	return view
}

func targetsOrEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Wallpaper Changer</title>
    <style>
        body { font-family: sans-serif; max-width: 700px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; }
        button { background: #007bff; color: white; border: none; padding: 10px 20px; border-radius: 5px; cursor: pointer; }
        button:hover { background: #0056b3; }
        input { padding: 8px; margin: 5px; }
        label { display: inline-block; width: 180px; }
        ul { max-height: 200px; overflow-y: auto; background: #fafafa; padding: 10px 30px; }
        li button { padding: 2px 8px; margin-left: 10px; background: #dc3545; }
    </style>
</head>
<body>
    <h1>Wallpaper Changer</h1>
    <div class="info" id="status">Loading...</div>
    <div>
        <label>Interval (seconds):</label>
        <input type="number" id="interval" min="0">
    </div>
    <div>
        <label>Start (HH:MM):</label>
        <input type="text" id="start" placeholder="09:00">
    </div>
    <div>
        <label>End (HH:MM):</label>
        <input type="text" id="end" placeholder="18:00">
    </div>
    <div>
        <label>Random order:</label>
        <input type="checkbox" id="random">
    </div>
    <div>
        <label>Add file or folder:</label>
        <input type="text" id="newpath" placeholder="/path/to/images">
        <button onclick="addTarget()">Add</button>
    </div>
    <ul id="targets"></ul>
    <div style="margin-top: 20px;">
        <button onclick="saveConfig()">Save</button>
        <button onclick="rotateNow()">Rotate Now</button>
    </div>
    <script>
        async function loadAll() {
            const cfg = await (await fetch('/api/config')).json();
            document.getElementById('interval').value = cfg.interval;
            document.getElementById('start').value = cfg.startDt || '';
            document.getElementById('end').value = cfg.endDt || '';
            document.getElementById('random').checked = cfg.random;
            const list = document.getElementById('targets');
            list.innerHTML = '';
            for (const t of cfg.fileTargets) {
                const li = document.createElement('li');
                li.textContent = t;
                const btn = document.createElement('button');
                btn.textContent = 'x';
                btn.onclick = () => removeTarget(t);
                li.appendChild(btn);
                list.appendChild(li);
            }
            const st = await (await fetch('/api/status')).json();
            let status = st.active ? 'Rotating (' + (st.random ? 'random' : 'sequential') + ')' : 'Idle';
            if (st.lastShown) {
                status += '<br>Last shown: ' + st.lastShown;
            }
            document.getElementById('status').innerHTML = status;
        }

        async function saveConfig() {
            const payload = {
                interval: parseInt(document.getElementById('interval').value),
                startDt: document.getElementById('start').value,
                endDt: document.getElementById('end').value,
                random: document.getElementById('random').checked
            };
            await fetch('/api/config', {
                method: 'PUT',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(payload)
            });
            await loadAll();
        }

        async function addTarget() {
            const path = document.getElementById('newpath').value;
            if (!path) return;
            await fetch('/api/targets', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({paths: [path]})
            });
            document.getElementById('newpath').value = '';
            await loadAll();
        }

        async function removeTarget(path) {
            await fetch('/api/targets?path=' + encodeURIComponent(path), {method: 'DELETE'});
            await loadAll();
        }

        async function rotateNow() {
            await fetch('/api/rotate', {method: 'POST'});
            await loadAll();
        }

        loadAll();
        setInterval(loadAll, 3000);
    </script>
</body>
</html>`))
}

type updatePayload struct {
	Interval             *int64    `json:"interval"`
	StartDt              *string   `json:"startDt"`
	EndDt                *string   `json:"endDt"`
	Weekly               *[]string `json:"weekly"`
	Monthly              *[]int    `json:"monthly"`
	Random               *bool     `json:"random"`
	DefaultWallpaperPath *string   `json:"defaultWallpaperPath"`
	WindowWidth          *int      `json:"windowWidth"`
	WindowHeight         *int      `json:"windowHeight"`
	WindowMinimized      *bool     `json:"windowMinimized"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
