package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Newichka/autoBro/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StaticFiles - каталог с загруженными фотографиями и префикс его URL
type StaticFiles struct {
	Dir    string
	Prefix string
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

func NewServer(
	httpPort string,
	carHandler *CarHandler,
	photoHandler *PhotoHandler,
	catalogHandler *CatalogHandler,
	parserHandler *ParserHandler,
	static StaticFiles,
	baseLogger port.LoggerPort,
) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + httpPort,
			Handler:           NewRouter(carHandler, photoHandler, catalogHandler, parserHandler, static, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// NewRouter собирает маршруты /api/v1 и раздачу статики
func NewRouter(
	carHandler *CarHandler,
	photoHandler *PhotoHandler,
	catalogHandler *CatalogHandler,
	parserHandler *ParserHandler,
	static StaticFiles,
	baseLogger port.LoggerPort,
) http.Handler {
	r := chi.NewRouter()
	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cars", func(r chi.Router) {
			r.Get("/", carHandler.SearchCars)
			r.Post("/", carHandler.CreateCar)
			r.Post("/with-photos", carHandler.CreateCarWithPhotos)

			r.Get("/makes", catalogHandler.ListMakes)
			r.Get("/models", catalogHandler.ListModels)
			r.Get("/year-range", catalogHandler.YearRange)
			r.Get("/price-range", catalogHandler.PriceRange)

			r.Route("/{carID}", func(r chi.Router) {
				r.Get("/", carHandler.GetCar)
				r.Put("/", carHandler.UpdateCar)
				r.Delete("/", carHandler.DeleteCar)

				r.Post("/photos", photoHandler.UploadPhotos)
				r.Put("/photos", photoHandler.ReplacePhotos)
				r.Delete("/photos/{photoID}", photoHandler.DeletePhoto)
			})
		})

		r.Get("/dictionaries", catalogHandler.GetDictionaries)
		r.Get("/dictionaries/{name}", catalogHandler.GetDictionary)

		r.Route("/parser", func(r chi.Router) {
			r.Get("/listings", parserHandler.FetchListings)
			r.Get("/details", parserHandler.FetchDetails)
			r.Post("/import", parserHandler.Import)
		})
	})

	if static.Dir != "" {
		prefix := "/" + strings.Trim(static.Prefix, "/")
		fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(static.Dir)))
		// тип ответа определяется только расширением файла
		r.With(middleware.SetHeader("X-Content-Type-Options", "nosniff")).Get(prefix+"/*", fileServer.ServeHTTP)
	}

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
