package errx

import "net/http"

// WrapCatalog wraps a beer catalog error with a consistent status and message.
// Catalog failures are recoverable within a turn: the dialogue manager
// downgrades them to a no-results action instead of surfacing the error.
func WrapCatalog(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: CatalogErrorMessage,
		Kind:    KindCollaboratorUnavailable,
	}
}
