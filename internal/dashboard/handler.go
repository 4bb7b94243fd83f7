package dashboard

import (
	"net/http"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request, user *auth.User) {
	pkg.WriteJSONOK(w, handler.service.Stats(r.Context(), user))
}
