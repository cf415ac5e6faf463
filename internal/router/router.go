package router

import (
	"net/http"

	"github.com/freightworks/quotation-service/internal/auth"
	"github.com/freightworks/quotation-service/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// InitRoutes собирает маршруты сервиса. Выдача токенов живет во внешнем
// сервисе авторизации, здесь только их проверка.
func InitRoutes(
	quoteHandler *handlers.QuoteHandler,
	rateHandler *handlers.RateHandler,
	authMw *auth.Middleware,
	uploadDir string,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlers.PingHandler)

		r.Route("/quotes", func(r chi.Router) {
			r.With(authMw.Optional).Post("/", quoteHandler.CreateQuote)

			r.Group(func(r chi.Router) {
				r.Use(authMw.Required)
				r.Get("/my-quotes", quoteHandler.GetMyQuotes)
				r.Get("/{quoteId}", quoteHandler.GetQuoteByID)
				r.Get("/{quoteId}/download", quoteHandler.DownloadQuotePdf)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMw.Required, authMw.AdminOnly)
				r.Get("/all", quoteHandler.GetAllQuotes)
				r.Patch("/{quoteId}/status", quoteHandler.UpdateQuoteStatus)
				r.Delete("/{quoteId}", quoteHandler.DeleteQuote)
			})
		})

		r.Route("/rates", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMw.Required)
				r.Get("/", rateHandler.GetRates)
				r.Get("/{rateId}", rateHandler.GetRateByID)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMw.Required, authMw.AdminOnly)
				r.Post("/", rateHandler.CreateRate)
				r.Put("/{rateId}", rateHandler.UpdateRate)
				r.Delete("/{rateId}", rateHandler.DeleteRate)
				r.Patch("/{rateId}/toggle", rateHandler.ToggleRate)
			})
		})
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return r
}
