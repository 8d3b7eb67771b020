package caller

import "github.com/gin-gonic/gin"

const contextKey = "caller"

// SetOnGin stores the resolved caller for downstream handlers. The auth
// middleware is the only writer.
func SetOnGin(c *gin.Context, clr Caller) {
	c.Set(contextKey, clr)

	// Flat keys for handlers and middleware that only need one field.
	c.Set("subject_id", clr.SubjectID)
	c.Set("owner_id", clr.OwnerID)
	c.Set("role", clr.Role)
	c.Set("employee_id", clr.EmployeeID)
}

// FromGin returns the resolved caller, false when the route skipped auth.
func FromGin(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Caller{}, false
	}
	clr, ok := v.(Caller)
	return clr, ok
}
