package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cropai/cropai/pkg/service/storage"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/cropai/cropai/pkg/utils/errutil"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/cropai/cropai/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultMaxImageBytes bounds uploaded images
const DefaultMaxImageBytes = 10 << 20

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	jwtSecret     []byte
	imageStore    storage.Service
	maxImageBytes int64
}

type Options func(*Server)

// WithJWTSecret requires an HS256 bearer token on every /api route
func WithJWTSecret(secret []byte) Options {
	return func(s *Server) {
		s.jwtSecret = secret
	}
}

// WithImageStore enables POST /api/images
func WithImageStore(store storage.Service) Options {
	return func(s *Server) {
		s.imageStore = store
	}
}

func WithMaxImageBytes(n int64) Options {
	return func(s *Server) {
		s.maxImageBytes = n
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		maxImageBytes: DefaultMaxImageBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		if len(s.jwtSecret) > 0 {
			r.Use(jwtMiddleware(s.jwtSecret))
		}

		r.Route("/diagnoses", func(r chi.Router) {
			r.Post("/", saveDiagnosisHandler(s.uc.Diagnosis))
			r.Get("/", listDiagnosesHandler(s.uc.Diagnosis))
			r.Post("/similar", findSimilarHandler(s.uc.Diagnosis))
			r.Post("/diagnose", diagnoseHandler(s.uc.Diagnose))
			r.Get("/{id}", getDiagnosisHandler(s.uc.Diagnosis))
			r.Post("/{id}/feedback", feedbackHandler(s.uc.Diagnosis))
		})

		if s.imageStore != nil {
			r.Post("/images", uploadImageHandler(s.imageStore, s.maxImageBytes))
		}
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
