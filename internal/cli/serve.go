package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/observability"
	"github.com/dotfill/dotfill/pkg/pipeline"
	"github.com/dotfill/dotfill/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	redis   string
	mongo   string
	mongoDB string
	noCache bool
}

// newServeCmd creates the serve command, exposing the packing pipeline as an
// HTTP API.
func newServeCmd() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		mongoDB: appName,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the packing pipeline as an HTTP API",
		Long: `Serve starts an HTTP server with the full pipeline behind it.

Endpoints:
  GET    /healthz       liveness probe
  POST   /pack          pack an uploaded image (pipeline options as JSON)
  GET    /runs          list persisted runs
  GET    /runs/{id}     fetch one run
  DELETE /runs/{id}     delete one run

Runs are persisted to MongoDB when --mongo is given, otherwise kept
in memory for the lifetime of the process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "shared Redis cache address (host:port)")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "MongoDB URI for run persistence")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runServe executes the serve command.
func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	c, err := openCache(opts.noCache, opts.redis)
	if err != nil {
		return err
	}

	var st store.Store
	if opts.mongo != "" {
		st, err = store.NewMongoStore(ctx, opts.mongo, opts.mongoDB)
		if err != nil {
			return err
		}
	} else {
		st = store.NewMemoryStore()
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(c, nil, st, logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(runner, st),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	prog := newProgress(logger)
	logger.Info("listening", "addr", opts.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	prog.done("server stopped")
	return nil
}

// newRouter builds the HTTP API.
func newRouter(runner *pipeline.Runner, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hookMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/pack", handlePack(runner))
	r.Get("/runs", handleListRuns(st))
	r.Get("/runs/{id}", handleGetRun(st))
	r.Delete("/runs/{id}", handleDeleteRun(st))

	return r
}

// hookMiddleware reports request lifecycle events to the observability hooks.
func hookMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), time.Since(start))
	})
}

// packResponse is the /pack response body. Artifact bytes are base64-coded
// by encoding/json.
type packResponse struct {
	RunID     string            `json:"run_id,omitempty"`
	Circles   int               `json:"circles"`
	Notices   []string          `json:"notices,omitempty"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// handlePack packs an uploaded image. The request body carries pipeline
// options as JSON, with the image itself base64-coded in image_data.
func handlePack(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var opts pipeline.Options
		if err := json.NewDecoder(req.Body).Decode(&opts); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
			return
		}
		if len(opts.ImageData) == 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "image_data is required"))
			return
		}

		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := packResponse{
			Circles:   result.Stats.CircleCount,
			Artifacts: result.Artifacts,
		}
		if result.Run != nil {
			resp.RunID = result.Run.ID
		}
		for _, n := range result.Packing.Notices {
			resp.Notices = append(resp.Notices, n.Message)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleListRuns lists persisted runs, most recent first.
func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		runs, err := st.List(req.Context(), 50)
		if err != nil {
			writeError(w, err)
			return
		}
		if runs == nil {
			runs = []*store.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

// handleGetRun fetches one run by ID.
func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		run, err := st.Get(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if run == nil {
			writeError(w, errors.New(errors.ErrCodeRunNotFound, "run not found"))
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

// handleDeleteRun deletes one run by ID.
func handleDeleteRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := st.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error's code to an HTTP status and writes a JSON error
// body with the user-facing message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMask, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPalette, errors.ErrCodeInvalidProfile,
		errors.ErrCodeMaskLoad:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeRunNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}
