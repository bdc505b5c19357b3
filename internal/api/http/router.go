package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cs-pendencias/pendencia-service/internal/api/http/handlers"
	"github.com/cs-pendencias/pendencia-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Pendencias     *handlers.PendenciasHandler
	Fluxo          *handlers.FluxoHandler
	Dashboard      *handlers.DashboardHandler
	Lookups        *handlers.LookupsHandler
	Trello         *handlers.TrelloHandler
	Notifications  *handlers.NotificationsHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything except the health probes
// and login sits behind the token middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuth())

	api.Get("/auth/me", cfg.Auth.Me)
	api.Post("/auth/register", auth.RequireGestor(), cfg.Auth.Register)

	pendencias := api.Group("/pendencias")
	pendencias.Post("", cfg.Pendencias.Create)
	pendencias.Get("", cfg.Pendencias.List)
	pendencias.Get("/:id", cfg.Pendencias.Get)
	pendencias.Put("/:id", cfg.Pendencias.Update)
	pendencias.Delete("/:id", auth.RequireGestor(), cfg.Pendencias.Delete)

	pendencias.Post("/:id/designar", auth.RequireGestor(), cfg.Fluxo.Designar)
	pendencias.Post("/:id/aceitar-analise", cfg.Fluxo.AceitarAnalise)
	pendencias.Post("/:id/aceitar-resolucao", cfg.Fluxo.AceitarResolucao)
	pendencias.Post("/:id/enviar-testes", cfg.Fluxo.EnviarParaTestes)
	pendencias.Post("/:id/aguardar-cliente", cfg.Fluxo.AguardarCliente)
	pendencias.Post("/:id/rejeitar", cfg.Fluxo.Rejeitar)
	pendencias.Post("/:id/resolver", cfg.Fluxo.Resolver)

	pendencias.Post("/:id/notificar", cfg.Notifications.Notificar)

	pendencias.Get("/:id/trello/card", cfg.Trello.Card)
	pendencias.Post("/:id/trello/card", cfg.Trello.CriarCard)
	pendencias.Post("/:id/trello/vincular", cfg.Trello.VincularCard)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/resumo", cfg.Dashboard.Resumo)
	dashboard.Get("/fila-aceite", cfg.Dashboard.FilaAceite)
	dashboard.Get("/tecnicos", auth.RequireGestor(), cfg.Dashboard.RelatorioTecnicos)

	api.Get("/clientes", cfg.Lookups.Clientes)
	api.Get("/modulos", cfg.Lookups.Modulos)
	api.Post("/modulos", auth.RequireGestor(), cfg.Lookups.CreateModulo)
	api.Delete("/modulos/:id", auth.RequireGestor(), cfg.Lookups.DeleteModulo)
	api.Get("/tecnicos", cfg.Lookups.Tecnicos)

	api.Get("/metrics", auth.RequireGestor(), cfg.Metrics.Snapshot)

	trello := api.Group("/trello")
	trello.Get("/organizations", cfg.Trello.Organizations)
	trello.Get("/organizations/:orgId/boards", cfg.Trello.Boards)
	trello.Get("/boards/:boardId/lists", cfg.Trello.Lists)
}
