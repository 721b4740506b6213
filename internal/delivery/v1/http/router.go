package http

import (
	_ "github.com/drsn-tech/catalog-core/docs" // Импорт сгенерированных файлов
	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, authUC usecase.AuthUC, workflow *usecase.AdminWorkflow) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(catalogUC, r.logger)
		registerProductRoutes(v1, prHandler)

		authHandler := NewAuthHandler(authUC, r.logger)
		admHandler := NewAdminHandler(workflow, r.logger)
		registerAuthRoutes(v1, authHandler, authUC, r.logger)
		registerAdminRoutes(v1, admHandler, authUC, r.logger)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Get("/suggestions", prHandler.listSuggestions)
	})
}

func registerAuthRoutes(router chi.Router, authHandler *AuthHandler, authUC usecase.AuthUC, log logger.Logger) {
	router.Route("/auth", func(a chi.Router) {
		a.Post("/login", authHandler.signIn)
		a.With(AuthMiddleware(authUC, log)).Get("/me", authHandler.me)
	})
}

func registerAdminRoutes(router chi.Router, admHandler *AdminHandler, authUC usecase.AuthUC, log logger.Logger) {
	router.Route("/admin", func(adm chi.Router) {
		adm.Use(AuthMiddleware(authUC, log))

		adm.Route("/products", func(pr chi.Router) {
			pr.Post("/", admHandler.createProduct)
			pr.Post("/image", admHandler.uploadImage)
			pr.Put("/{id}", admHandler.updateProduct)
			pr.Delete("/{id}", admHandler.deleteProduct)
		})
	})
}
