package auth

import (
	"fmt"
)

// EmployeeContext is the verified caller identity. Handlers resolve it once
// from the token claims and pass it explicitly into every service call;
// nothing below the transport layer reads claims or shared session state.
type EmployeeContext struct {
	EmployeeID string
	IsAdmin    bool
}

// EmployeeContextFromClaims builds an EmployeeContext from verified JWT
// claims.
func EmployeeContextFromClaims(claims map[string]interface{}) (EmployeeContext, error) {
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return EmployeeContext{}, fmt.Errorf("employee_id claim is missing or invalid: %w", ErrInvalidToken)
	}

	isAdmin, _ := claims["is_admin"].(bool)

	return EmployeeContext{
		EmployeeID: employeeID,
		IsAdmin:    isAdmin,
	}, nil
}

// CanActFor reports whether the caller may operate on the given employee's
// records: admins always, everyone else only on their own.
func (c EmployeeContext) CanActFor(employeeID string) bool {
	return c.IsAdmin || c.EmployeeID == employeeID
}
