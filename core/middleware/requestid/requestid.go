package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the generated request ID.
const HeaderName = "X-Request-ID"

// New returns a middleware that assigns a unique ID to every request.
// The ID is stored in Locals under "request_id" and echoed in the
// response headers so clients can reference it when reporting issues.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("request_id", id)
		c.Set(HeaderName, id)

		return c.Next()
	}
}
