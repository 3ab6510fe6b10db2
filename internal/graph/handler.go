package graph

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// Request is a GraphQL POST body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Handler executes GraphQL requests against a schema.
type Handler struct {
	schema graphql.Schema
}

// NewHandler wraps a built schema.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

// Query handles POST /graphql. Query errors are reported in the result body
// with status 200.
func (h *Handler) Query(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid graphql request body")
	}
	if req.Query == "" {
		return fiber.NewError(http.StatusBadRequest, "query is required")
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.UserContext(),
	})
	return c.JSON(result)
}
