// infra/graphql/errors.go
package graphql

import (
	"fmt"
	"strings"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
)

// classify maps GraphQL response errors onto the core's error taxonomy,
// checking the machine-readable extension code first and falling back to
// message inspection for backends that omit it.
func classify(opName string, errs []responseError) error {
	first := errs[0]
	code := strings.ToUpper(first.Extensions.Code)
	msg := strings.ToLower(first.Message)

	switch {
	case code == "UNAUTHENTICATED" || code == "UNAUTHORIZED" || code == "FORBIDDEN":
		return fmt.Errorf("%w: %s: %s", domainError.ErrUnauthorized, opName, first.Message)
	case code == "NOT_FOUND":
		return fmt.Errorf("%w: %s: %s", domainError.ErrNotFound, opName, first.Message)
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "forbidden") || strings.Contains(msg, "permission"):
		return fmt.Errorf("%w: %s: %s", domainError.ErrUnauthorized, opName, first.Message)
	case strings.Contains(msg, "not found"):
		return fmt.Errorf("%w: %s: %s", domainError.ErrNotFound, opName, first.Message)
	}
	// Anything unrecognized still belongs to the taxonomy so callers can
	// branch on it with errors.Is.
	return fmt.Errorf("%w: %s failed: %s", domainError.ErrTransport, opName, first.Message)
}
