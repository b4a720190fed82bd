package graphql

import (
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice.GO/api"
)

func init() {
	api.RegisterRoute(RegisterGraphQLRoutes)
}

// NewSchema parses the schema against the root resolver.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(Schema, &RootResolver{DB: db})
}

func RegisterGraphQLRoutes(e *echo.Echo, db *gorm.DB) {
	schema, err := NewSchema(db)
	if err != nil {
		panic("graphql schema: " + err.Error())
	}
	registerRoutes(e, schema)
}

// RegisterGraphQLRoutesWithSchema registers /graphql with a custom schema (for tests).
func RegisterGraphQLRoutesWithSchema(e *echo.Echo, schema *gql.Schema) {
	registerRoutes(e, schema)
}

func registerRoutes(e *echo.Echo, schema *gql.Schema) {
	h := echo.WrapHandler(&relay.Handler{Schema: schema})
	e.POST("/graphql", h)
}
