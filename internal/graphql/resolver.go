package graphql

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"

	"github.com/tournevent/shipcost/internal/telemetry"
	"github.com/tournevent/shipcost/pkg/shipping"
)

// DefaultProfile is quoted when the request names no profile.
const DefaultProfile = "standard"

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Registry   *shipping.Registry
	Warehouses []shipping.Warehouse
	LocalKm    float64
	Logger     *otelzap.Logger
	Metrics    *telemetry.Metrics
	Tracer     trace.Tracer
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(registry *shipping.Registry, warehouses []shipping.Warehouse, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Registry:   registry,
		Warehouses: warehouses,
		LocalKm:    shipping.DefaultLocalDeliveryKm,
		Logger:     logger,
		Metrics:    metrics,
	}
}

// Query returns the query resolver.
func (r *Resolver) Query() *QueryResolver {
	return &QueryResolver{r}
}

// QueryResolver implements the fields of the Query type.
type QueryResolver struct{ *Resolver }
