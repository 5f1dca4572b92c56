package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/verify-api/internal/application/verification"
	jwtinfra "github.com/verify-api/internal/infrastructure/jwt"
	"github.com/verify-api/internal/pkg/validate"
)

// RequestCodeBody is the inbound payload for requesting a code.
// Receiver format checks beyond presence belong here, not in the core.
type RequestCodeBody struct {
	Method   string `json:"method" validate:"required,oneof=email mobile"`
	Receiver string `json:"receiver" validate:"required"`
}

// ConfirmCodeBody is the inbound payload for confirming a code.
type ConfirmCodeBody struct {
	Receiver string `json:"receiver" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

// VerificationHandler exposes the two verification operations.
type VerificationHandler struct {
	svc         verification.Service
	jwtProvider *jwtinfra.Provider // nil when proof tokens are not configured
}

func NewVerificationHandler(svc verification.Service, jwtProvider *jwtinfra.Provider) *VerificationHandler {
	return &VerificationHandler{svc: svc, jwtProvider: jwtProvider}
}

func (h *VerificationHandler) Request(w http.ResponseWriter, r *http.Request) {
	var body RequestCodeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res, err := h.svc.RequestCode(r.Context(), body.Method, body.Receiver)
	if err != nil {
		httpError(w, err)
		return
	}
	if !res.Success {
		writeError(w, http.StatusBadGateway, res.Message)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: res.Message})
}

func (h *VerificationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var body ConfirmCodeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ok, err := h.svc.ConfirmCode(r.Context(), body.Receiver, body.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	if !ok {
		// One message for wrong, expired, and absent codes alike.
		writeError(w, http.StatusUnauthorized, "invalid or expired code")
		return
	}

	env := ConfirmEnvelope{Message: "verified"}
	if h.jwtProvider != nil {
		token, err := h.jwtProvider.Sign(body.Receiver)
		if err != nil {
			// Verification already succeeded; return it without the token.
			slog.Warn("could not sign proof token", "err", err)
		} else {
			env.ProofToken = token
		}
	}
	writeJSON(w, http.StatusOK, env)
}
