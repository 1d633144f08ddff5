package apkcfghttp

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/buildfile"
	xslice "github.com/frantjc/x/slice"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"

	maxBodyBytes = 1 << 20
)

type handler struct {
	resolver *apkcfg.Resolver
}

// NewHandler returns an http.Handler that resolves options
// posted to it using a copy of resolver's configuration.
func NewHandler(resolver *apkcfg.Resolver) http.Handler {
	var (
		h = &handler{
			resolver: &apkcfg.Resolver{
				Platform:       resolver.EffectivePlatform(),
				SigningConfigs: resolver.EffectiveSigningConfigs(),
				Strict:         resolver.Strict,
			},
		}
		r = chi.NewRouter()
	)

	r.Use(middleware.RealIP)
	r.Use(requestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	})

	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/platform", handleErr(h.handlePlatform))
		r.Post("/descriptors", handleErr(h.handleResolve))
	})

	r.NotFound(http.NotFound)

	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, id)

		log := apkcfg.LoggerFrom(r.Context()).WithValues("requestID", id)
		log.V(1).Info("handling request", "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(apkcfg.WithLogger(r.Context(), log)))
	})
}

func handleErr(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			apkcfg.LoggerFrom(r.Context()).V(1).Info("request failed", "err", err.Error())
			respondErr(w, r, err)
		}
	}
}

func (h *handler) handlePlatform(w http.ResponseWriter, r *http.Request) error {
	return respond(w, r, &apkcfg.PlatformStatus{
		Platform:       h.resolver.Platform,
		SigningConfigs: h.resolver.SigningConfigs.Names(),
		Strict:         h.resolver.Strict,
	}, http.StatusOK)
}

func (h *handler) handleResolve(w http.ResponseWriter, r *http.Request) error {
	mediaType := ContentTypeJSON
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		var err error
		if mediaType, _, err = mime.ParseMediaType(contentType); err != nil {
			return newHTTPStatusCodeError(err, http.StatusBadRequest)
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return newHTTPStatusCodeError(err, http.StatusRequestEntityTooLarge)
	}

	var f *buildfile.File
	switch {
	case mediaType == ContentTypeHCL:
		f, err = buildfile.DecodeHCL(body, "request.hcl")
	case xslice.Includes([]string{ContentTypeJSON, ContentTypeYAML, "application/x-yaml", "text/yaml"}, mediaType):
		f, err = buildfile.DecodeYAML(body)
	default:
		return newHTTPStatusCodeError(fmt.Errorf("unsupported Content-Type %s", mediaType), http.StatusUnsupportedMediaType)
	}
	if err != nil {
		if apkcfg.IsConfigError(err) {
			return err
		}

		return newHTTPStatusCodeError(err, http.StatusBadRequest)
	}

	resolver := &apkcfg.Resolver{
		Platform:       h.resolver.Platform,
		SigningConfigs: f.Register(h.resolver.SigningConfigs),
		Strict:         h.resolver.Strict,
	}

	if strict := r.URL.Query().Get("strict"); strict != "" {
		if resolver.Strict, err = strconv.ParseBool(strict); err != nil {
			return newHTTPStatusCodeError(fmt.Errorf("invalid strict query parameter %s", strict), http.StatusBadRequest)
		}
	}

	d, err := resolver.Resolve(f.Options)
	if err != nil {
		return err
	}

	if unknown := apkcfg.UnknownKeys(f.Options); len(unknown) > 0 {
		apkcfg.LoggerFrom(r.Context()).Info("ignoring unknown options", "keys", strings.Join(unknown, ","))
	}

	w.Header().Set("ETag", strconv.Quote(d.Digest().String()))

	return respond(w, r, d, http.StatusCreated)
}
