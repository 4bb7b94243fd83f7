package recommend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	msgEquipmentRequired = "Equipment information is required"
	msgUnavailable       = "Unable to generate recommendation at the moment. Please try again later."
	msgFailed            = "Failed to generate workout recommendation"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// ErrorMessage maps a Recommend error to the message and status shown to the user.
func ErrorMessage(err error) (string, int) {
	switch {
	case errors.Is(err, ErrEquipmentRequired):
		return msgEquipmentRequired, http.StatusBadRequest
	case errors.Is(err, ErrGenerationUnavailable):
		return msgUnavailable, http.StatusServiceUnavailable
	default:
		return msgFailed, http.StatusInternalServerError
	}
}

func (handler *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recommend")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("recommend, unmarshal json: %s", err)
		pkg.WriteJSONError(w, msgEquipmentRequired, http.StatusBadRequest)
		return
	}

	result, err := handler.service.Recommend(ctx, user.ID, req)
	if err != nil {
		msg, status := ErrorMessage(err)
		if status >= http.StatusInternalServerError {
			log.Errorf("recommend for %s: %s", user.ID, err)
		}
		pkg.WriteJSONError(w, msg, status)
		return
	}

	pkg.WriteJSONOK(w, result)
}
