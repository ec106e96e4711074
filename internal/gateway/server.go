package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Gateway owns every component for the lifetime of the process. One
// instance serves all requests; each request is independent apart from the
// history store, which serializes its own writes.
type Gateway struct {
	cfg         Config
	log         *Logger
	dispatcher  *Dispatcher
	history     *HistoryStore
	fetcher     *Fetcher
	renderer    MarkdownRenderer
	transcriber Transcriber
	git         *GitAdapter
}

func NewGateway(cfg Config, logger *Logger) (*Gateway, error) {
	history, err := NewHistoryStore(cfg.DataRoot)
	if err != nil {
		return nil, err
	}
	oracle := NewProxyOracle(cfg.OracleToken, cfg.OracleModel, cfg.OracleURL, cfg.OracleTimeout())
	dispatcher := &Dispatcher{
		Oracle:   oracle,
		Executor: NewShellExecutor(cfg.ExecTimeout(), logger),
		History:  history,
		Logger:   logger,
		Root:     cfg.DataRoot,
		Denylist: cfg.Denylist,
	}
	return &Gateway{
		cfg:         cfg,
		log:         logger,
		dispatcher:  dispatcher,
		history:     history,
		fetcher:     NewFetcher(cfg.FetchTimeout()),
		renderer:    NewMarkdownRenderer(),
		transcriber: NewSpeechClient(cfg.SpeechURL, cfg.OracleToken, cfg.OracleTimeout()),
		git:         NewGitAdapter(cfg.DataRoot),
	}, nil
}

// Close releases the history store.
func (g *Gateway) Close() error {
	return g.history.Close()
}

// DispatchAdapter routes a typed adapter task to its handler. The switch is
// total over the closed TaskKind set; every path touching the filesystem is
// validated by the Path Guard here, before the adapter runs.
func (g *Gateway) DispatchAdapter(ctx context.Context, task AdapterTask) (map[string]interface{}, error) {
	g.log.Info("adapter task", map[string]interface{}{"kind": task.kind().String()})
	root := g.cfg.DataRoot
	switch t := task.(type) {
	case ReadFileTask:
		if !IsAuthorizedPath(t.Path, root) {
			return nil, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
		}
		content, err := os.ReadFile(t.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, Errf(KindNotFound, "file not found")
			}
			return nil, Errf(KindAdapterFailure, "read %s: %v", t.Path, err)
		}
		return map[string]interface{}{"content": string(content)}, nil

	case FetchAPITask:
		if !IsAuthorizedPath(t.OutputPath, root) {
			return nil, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
		}
		if err := g.fetcher.FetchToFile(ctx, t.URL, t.OutputPath); err != nil {
			return nil, err
		}
		return map[string]interface{}{"message": "Data fetched"}, nil

	case RunSQLTask:
		if !IsAuthorizedPath(t.DBPath, root) {
			return nil, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
		}
		result, err := RunSelect(ctx, t.DBPath, t.Query)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"columns": result.Columns, "rows": result.Rows}, nil

	case ConvertMarkdownTask:
		if !IsAuthorizedPath(t.MarkdownPath, root) || !IsAuthorizedPath(t.OutputPath, root) {
			return nil, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
		}
		if err := ConvertMarkdownFile(g.renderer, t.MarkdownPath, t.OutputPath); err != nil {
			return nil, err
		}
		return map[string]interface{}{"message": "Markdown converted to HTML"}, nil

	case TranscribeAudioTask:
		if !IsAuthorizedPath(t.AudioPath, root) {
			return nil, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
		}
		text, err := TranscribeFile(ctx, g.transcriber, t.AudioPath)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"transcription": text}, nil

	case ResizeImageTask:
		if !IsAuthorizedPath(t.ImagePath, root) {
			return nil, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
		}
		if t.OutputPath == "" {
			if err := ResizeInPlace(t.ImagePath, t.Width, t.Height); err != nil {
				return nil, err
			}
		} else {
			if !IsAuthorizedPath(t.OutputPath, root) {
				return nil, Errf(KindSandboxViolation, "access outside %s is not allowed", root)
			}
			if err := ResizeTo(t.ImagePath, t.OutputPath, t.Width, t.Height); err != nil {
				return nil, err
			}
		}
		return map[string]interface{}{"message": "Image resized"}, nil

	case GitCommitTask:
		if err := g.git.CommitAndPush(ctx, t.RepoURL, t.CommitMessage); err != nil {
			return nil, err
		}
		return map[string]interface{}{"message": "Commit pushed"}, nil

	default:
		return nil, Errf(KindAdapterFailure, "unknown task kind")
	}
}

// Handler returns the HTTP surface. Every response is JSON with a status
// field; no request failure crashes the process.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", g.withRequestLog(g.handleRun))
	mux.HandleFunc("/read", g.withRequestLog(g.handleRead))
	mux.HandleFunc("/fetch_api", g.withRequestLog(g.adapterHandler(http.MethodPost, func() AdapterTask { return &FetchAPITask{} })))
	mux.HandleFunc("/run_sql", g.withRequestLog(g.adapterHandler(http.MethodPost, func() AdapterTask { return &RunSQLTask{} })))
	mux.HandleFunc("/convert_md", g.withRequestLog(g.adapterHandler(http.MethodPost, func() AdapterTask { return &ConvertMarkdownTask{} })))
	mux.HandleFunc("/transcribe_audio", g.withRequestLog(g.adapterHandler(http.MethodPost, func() AdapterTask { return &TranscribeAudioTask{} })))
	mux.HandleFunc("/resize_image", g.withRequestLog(g.adapterHandler(http.MethodPost, func() AdapterTask { return &ResizeImageTask{} })))
	mux.HandleFunc("/git_commit", g.withRequestLog(g.adapterHandler(http.MethodPost, func() AdapterTask { return &GitCommitTask{} })))
	mux.HandleFunc("/history", g.withRequestLog(g.handleHistory))
	mux.HandleFunc("/healthz", g.withRequestLog(g.handleHealthz))
	return mux
}

func (g *Gateway) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next(w, r)
		g.log.Info("request handled", map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

// handleRun is the oracle-backed dispatch endpoint. It always answers 200;
// errors travel inside the envelope, matching the reference behavior.
func (g *Gateway) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, Outcome{Status: StatusError, Message: "method not allowed"})
		return
	}
	task := r.URL.Query().Get("task")
	if task == "" {
		writeJSON(w, http.StatusBadRequest, Outcome{Status: StatusError, Message: "task parameter is required"})
		return
	}
	outcome := g.dispatcher.Run(r.Context(), task)
	writeJSON(w, http.StatusOK, outcome)
}

func (g *Gateway) handleRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, Outcome{Status: StatusError, Message: "method not allowed"})
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, Outcome{Status: StatusError, Message: "path parameter is required"})
		return
	}
	result, err := g.DispatchAdapter(r.Context(), ReadFileTask{Path: path})
	if err != nil {
		writeAdapterError(w, err)
		return
	}
	writeSuccess(w, result)
}

func (g *Gateway) adapterHandler(method string, payload func() AdapterTask) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeJSON(w, http.StatusMethodNotAllowed, Outcome{Status: StatusError, Message: "method not allowed"})
			return
		}
		task := payload()
		if err := json.NewDecoder(r.Body).Decode(task); err != nil {
			writeJSON(w, http.StatusBadRequest, Outcome{Status: StatusError, Message: "invalid request body"})
			return
		}
		result, err := g.DispatchAdapter(r.Context(), derefTask(task))
		if err != nil {
			writeAdapterError(w, err)
			return
		}
		writeSuccess(w, result)
	}
}

// derefTask unwraps the pointer the JSON decoder needed so the adapter
// dispatch can switch on value types.
func derefTask(task AdapterTask) AdapterTask {
	switch t := task.(type) {
	case *ReadFileTask:
		return *t
	case *FetchAPITask:
		return *t
	case *RunSQLTask:
		return *t
	case *ConvertMarkdownTask:
		return *t
	case *TranscribeAudioTask:
		return *t
	case *ResizeImageTask:
		return *t
	case *GitCommitTask:
		return *t
	default:
		return task
	}
}

func (g *Gateway) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, Outcome{Status: StatusError, Message: "method not allowed"})
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	records, err := g.history.Recent(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Outcome{Status: StatusError, Message: err.Error()})
		return
	}
	tasks := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, map[string]interface{}{
			"id":     rec.ID,
			"task":   rec.Description,
			"status": rec.Status,
			"output": rec.Output,
		})
	}
	writeSuccess(w, map[string]interface{}{"tasks": tasks})
}

func (g *Gateway) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": StatusSuccess})
}

func writeSuccess(w http.ResponseWriter, extra map[string]interface{}) {
	body := map[string]interface{}{"status": StatusSuccess}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeAdapterError(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	writeJSON(w, kind.HTTPStatus(), Outcome{Status: StatusError, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
