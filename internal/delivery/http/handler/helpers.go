package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/domain/entity"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"

	"github.com/gorilla/mux"
)

// pathID reads a positive integer path variable.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter. A missing value yields 0.
func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// requireActor writes 401 when the request carries no authenticated identity.
func requireActor(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return entity.Actor{}, false
	}
	return actor, true
}

// decodeAndValidate writes the 400 response itself when the body is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}
