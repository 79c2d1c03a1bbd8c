package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/filedrop/gateway/internal/response"
)

const maxLoginBody = 8 << 10

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New(validator.WithRequiredStructEnabled())}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,max=320"  example:"admin@example.com"`
	Password string `json:"password" validate:"required,max=1024" example:"secret"`
}

type loginResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGci..."`
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Exchange the configured email and password for a bearer token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	loginResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.BadRequest(w, "request body is required")
			return
		}
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "email and password are required")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, loginResponse{AccessToken: token})
}
