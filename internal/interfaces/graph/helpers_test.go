package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apptracking "github.com/shiptrack/backend/internal/application/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/config"
	"github.com/shiptrack/backend/internal/infrastructure/persistence"
	"github.com/shiptrack/backend/internal/infrastructure/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envOptions struct {
	graphql  config.GraphQLConfig
	legacy   bool
	resolver func(*apptracking.QueryService, *apptracking.MutationService) *Resolver
	metrics  *telemetry.GraphQLMetrics
	timeout  time.Duration
}

type envOption func(*envOptions)

func withLegacyListArguments() envOption {
	return func(o *envOptions) { o.legacy = true }
}

func withoutIntrospection() envOption {
	return func(o *envOptions) { o.graphql.IntrospectionEnabled = false }
}

func withComplexityLimit(limit int) envOption {
	return func(o *envOptions) { o.graphql.ComplexityLimit = limit }
}

func withMetrics(m *telemetry.GraphQLMetrics) envOption {
	return func(o *envOptions) { o.metrics = m }
}

// withQueryTimeout bounds repository calls after the database is opened
func withQueryTimeout(d time.Duration) envOption {
	return func(o *envOptions) { o.timeout = d }
}

func withResolver(r *Resolver) envOption {
	return func(o *envOptions) {
		o.resolver = func(*apptracking.QueryService, *apptracking.MutationService) *Resolver { return r }
	}
}

type testEnv struct {
	db     *persistence.Database
	engine *gin.Engine
}

// newTestEnv serves the GraphQL endpoint over a private in-memory database
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	o := envOptions{
		graphql: config.GraphQLConfig{
			Path:                 "/graphql",
			PlaygroundEnabled:    true,
			PlaygroundPath:       "/",
			IntrospectionEnabled: true,
			QueryCacheSize:       100,
		},
		resolver: NewResolver,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Dialect:      config.DialectSQLite,
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 3,
		MaxIdleConns: 1,
		QueryTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	if o.timeout > 0 {
		db.QueryTimeout = o.timeout
	}

	repos := persistence.NewRepositories(db)
	queries := apptracking.NewQueryService(repos, zap.NewNop(), apptracking.WithLegacyListArguments(o.legacy))
	mutations := apptracking.NewMutationService(repos, queries)

	schema, err := LoadSchema()
	require.NoError(t, err)

	es := NewExecutableSchema(schema, o.resolver(queries, mutations))
	srv := NewHandler(es, o.graphql, zap.NewNop(), o.metrics)

	engine := gin.New()
	NewRoutes(o.graphql, srv).RegisterRoutes(&engine.RouterGroup)

	return &testEnv{db: db, engine: engine}
}

type gqlError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path"`
	Extensions map[string]any `json:"extensions"`
}

type gqlResponse struct {
	Status int
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func (r gqlResponse) code(i int) string {
	if i >= len(r.Errors) {
		return ""
	}
	code, _ := r.Errors[i].Extensions["code"].(string)
	return code
}

func (r gqlResponse) dataIsNull() bool {
	return len(r.Data) == 0 || string(r.Data) == "null"
}

// decode unmarshals the data object into out
func (r gqlResponse) decode(t *testing.T, out any) {
	t.Helper()
	require.False(t, r.dataIsNull(), "response has no data: %+v", r.Errors)
	require.NoError(t, json.Unmarshal(r.Data, out))
}

func (e *testEnv) post(t *testing.T, query string, variables map[string]any) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.serve(t, req)
}

func (e *testEnv) get(t *testing.T, query string) gqlResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(query), nil)
	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) gqlResponse {
	t.Helper()

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	resp.Status = w.Code
	return resp
}

const createCustomerMutation = `mutation ($name: String!) {
  createCustomer(
    customer_name: $name
    customer_address: "1 Main St"
    customer_city: "Denver"
    customer_state: "CO"
    customer_country: "US"
    customer_zipcode: "80202"
    primary_contact_name: "Ada"
    primary_contact_phone_number: "555-0100"
    primary_contact_email: "ada@example.com"
    skycatch_sales_rep: "Bob"
  ) { id customer_name }
}`

func (e *testEnv) createCustomer(t *testing.T, name string) string {
	t.Helper()
	resp := e.post(t, createCustomerMutation, map[string]any{"name": name})
	require.Empty(t, resp.Errors)

	var out struct {
		CreateCustomer struct {
			ID string `json:"id"`
		} `json:"createCustomer"`
	}
	resp.decode(t, &out)
	return out.CreateCustomer.ID
}

func (e *testEnv) createShipment(t *testing.T, customerID int, tracking, shipper string) string {
	t.Helper()
	resp := e.post(t, `mutation ($c: Int!, $t: String!, $s: String!) {
  createShipment(tracking_number: $t, shipper: $s, customer_id: $c) { id }
}`, map[string]any{"c": customerID, "t": tracking, "s": shipper})
	require.Empty(t, resp.Errors)

	var out struct {
		CreateShipment struct {
			ID string `json:"id"`
		} `json:"createShipment"`
	}
	resp.decode(t, &out)
	return out.CreateShipment.ID
}

func (e *testEnv) createPackage(t *testing.T, customerID, shipmentID int, packageType, status string) string {
	t.Helper()
	resp := e.post(t, `mutation ($c: Int!, $s: Int!, $t: String!, $st: String!) {
  createPackage(package_type: $t, package_status: $st, customer_id: $c, shipment_id: $s) { id }
}`, map[string]any{"c": customerID, "s": shipmentID, "t": packageType, "st": status})
	require.Empty(t, resp.Errors)

	var out struct {
		CreatePackage struct {
			ID string `json:"id"`
		} `json:"createPackage"`
	}
	resp.decode(t, &out)
	return out.CreatePackage.ID
}
