package httpadapter

import (
	"net/http"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrModelUnavailable):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrJudgmentNotFound), domain.IsKind(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrSearchUnavailable), domain.IsKind(err, domain.ErrEmptyCorpus):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrSearchTimeout), domain.IsKind(err, domain.ErrGenerationTimeout):
		return http.StatusGatewayTimeout
	case domain.IsKind(err, domain.ErrEmptyCompletion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
