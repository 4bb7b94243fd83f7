package profiles

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	profile, err := handler.service.Get(ctx, user)
	if err != nil {
		log.Errorf("get profile for %s: %s", user.ID, err)
		pkg.WriteJSONError(w, "Failed to load profile data", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, profile)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.update")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Tracef("update profile, unmarshal json: %s", err)
		pkg.WriteJSONError(w, "Invalid profile data", http.StatusBadRequest)
		return
	}

	profile, err := handler.service.Save(ctx, user, form)
	if err != nil {
		if fe, ok := pkg.AsFieldError(err); ok {
			pkg.WriteJSONError(w, fe.Message, http.StatusBadRequest)
			return
		}
		log.Errorf("update profile for %s: %s", user.ID, err)
		pkg.WriteJSONError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, profile)
}
