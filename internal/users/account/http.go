// Copyright (c) 2026 Melodia. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodia-app/melodia/internal/platform/middleware"
	requestutil "github.com/melodia-app/melodia/internal/platform/request"
	"github.com/melodia-app/melodia/internal/platform/respond"
	"github.com/melodia-app/melodia/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authenticated /me endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the profile endpoints. Everything under
// this router requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getProfile)
		r.Patch("/me", handler.updateProfile)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	Name *string `json:"name"`
}

/*
GetProfile returns the authenticated listener's own profile.

GET /api/v1/account/me

Response:
  - 200: auth.User: Full private profile
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile applies partial changes to the listener's profile.

PATCH /api/v1/account/me

Request:
  - Body: updateProfileRequest (Name)

Response:
  - 200: auth.User: Profile after the update
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Name != nil {
		validator := &validate.Validator{}
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 100)

		if err := validator.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name: input.Name,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
