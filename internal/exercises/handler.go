package exercises

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

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	exercises, err := handler.service.List(ctx, user.ID)
	if err != nil {
		log.Errorf("list exercises for %s: %s", user.ID, err)
		pkg.WriteJSONError(w, "Failed to fetch exercises", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, exercises)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.add")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Tracef("add exercise, unmarshal json: %s", err)
		pkg.WriteJSONError(w, "Invalid exercise data", http.StatusBadRequest)
		return
	}

	exercise, err := handler.service.Add(ctx, user.ID, form)
	if err != nil {
		if fe, ok := pkg.AsFieldError(err); ok {
			log.Tracef("add exercise rejected: %s", fe)
			pkg.WriteJSONError(w, fe.Message, http.StatusBadRequest)
			return
		}
		log.Errorf("add exercise for %s: %s", user.ID, err)
		pkg.WriteJSONError(w, "Failed to add exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("exercise %s added for %s", exercise.ID, user.ID)
	pkg.WriteJSON(w, exercise, http.StatusCreated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, user *auth.User) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", user.ID))

	err := handler.service.Delete(ctx, user.ID, r.URL.Query().Get("id"))
	if err == nil {
		pkg.WriteJSONSuccess(w)
		return
	}

	msg, status := DeleteErrorMessage(err)
	switch {
	case status == http.StatusForbidden:
		log.Warnf("user %s tried to delete an exercise of another user", user.ID)
	case status >= http.StatusInternalServerError:
		log.Errorf("delete exercise for %s: %s", user.ID, err)
	}
	pkg.WriteJSONError(w, msg, status)
}

// DeleteErrorMessage maps a Delete error to the message and status shown to the user.
func DeleteErrorMessage(err error) (string, int) {
	if fe, ok := pkg.AsFieldError(err); ok {
		return fe.Message, http.StatusBadRequest
	}
	switch {
	case errors.Is(err, ErrExerciseNotFound):
		return "Exercise not found", http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return "Unauthorized to delete this exercise", http.StatusForbidden
	default:
		return "Failed to delete exercise", http.StatusInternalServerError
	}
}
