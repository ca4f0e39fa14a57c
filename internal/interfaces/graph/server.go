package graph

import (
	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"github.com/shiptrack/backend/internal/infrastructure/config"
	"github.com/shiptrack/backend/internal/infrastructure/telemetry"
)

const persistedQueryCacheSize = 100

// NewHandler builds the gqlgen HTTP handler for es
func NewHandler(es graphql.ExecutableSchema, cfg config.GraphQLConfig, zapLogger *zap.Logger, metrics *telemetry.GraphQLMetrics) *handler.Server {
	srv := handler.New(es)

	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	cacheSize := cfg.QueryCacheSize
	if cacheSize <= 0 {
		cacheSize = 1000
	}
	srv.SetQueryCache(lru.New[*ast.QueryDocument](cacheSize))

	if cfg.IntrospectionEnabled {
		srv.Use(extension.Introspection{})
	}
	srv.Use(extension.AutomaticPersistedQuery{
		Cache: lru.New[string](persistedQueryCacheSize),
	})
	if cfg.ComplexityLimit > 0 {
		srv.Use(extension.FixedComplexityLimit(cfg.ComplexityLimit))
	}
	srv.Use(NewTracer(metrics))

	srv.SetErrorPresenter(NewErrorPresenter(zapLogger))
	srv.SetRecoverFunc(NewRecoverFunc(zapLogger))

	return srv
}

// Routes registers the GraphQL endpoint and the playground on a gin router
type Routes struct {
	cfg config.GraphQLConfig
	srv *handler.Server
}

// NewRoutes creates the route registrar for srv
func NewRoutes(cfg config.GraphQLConfig, srv *handler.Server) *Routes {
	return &Routes{cfg: cfg, srv: srv}
}

// RegisterRoutes implements router.RouteRegistrar
func (r *Routes) RegisterRoutes(rg *gin.RouterGroup) {
	endpoint := gin.WrapH(r.srv)
	rg.GET(r.cfg.Path, endpoint)
	rg.POST(r.cfg.Path, endpoint)

	if r.cfg.PlaygroundEnabled && r.cfg.PlaygroundPath != r.cfg.Path {
		rg.GET(r.cfg.PlaygroundPath, gin.WrapH(playground.Handler("Shiptrack GraphQL", r.cfg.Path)))
	}
}
