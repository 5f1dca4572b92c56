package handler

import (
	"bytes"
	"context"
	cryptorand "crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verify-api/internal/application/verification"
	"github.com/verify-api/internal/config"
	"github.com/verify-api/internal/domain"
	jwtinfra "github.com/verify-api/internal/infrastructure/jwt"
)

// --- mock ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) RequestCode(ctx context.Context, method, receiver string) (verification.Result, error) {
	args := m.Called(ctx, method, receiver)
	return args.Get(0).(verification.Result), args.Error(1)
}

func (m *mockVerificationSvc) ConfirmCode(ctx context.Context, receiver, code string) (bool, error) {
	args := m.Called(ctx, receiver, code)
	return args.Bool(0), args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

// --- Request ---

func TestRequest_InvalidBody(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{}, nil)
	r := httptest.NewRequest(http.MethodPost, "/v1/verifications/request", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Request(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequest_ValidationFailure(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{}, nil)
	rr := postJSON(t, h.Request, "/v1/verifications/request", RequestCodeBody{Method: "email"}) // missing receiver
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRequest_UnknownMethodRejectedByValidation(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{}, nil)
	rr := postJSON(t, h.Request, "/v1/verifications/request", RequestCodeBody{Method: "fax", Receiver: "a@b.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRequest_ServiceBadRequest(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "email", "a@b.com").
		Return(verification.Result{}, domain.ErrBadRequest)

	h := NewVerificationHandler(svc, nil)
	rr := postJSON(t, h.Request, "/v1/verifications/request", RequestCodeBody{Method: "email", Receiver: "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequest_DispatchFailure(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "email", "a@b.com").
		Return(verification.Result{Success: false, Message: "could not send verification code"}, nil)

	h := NewVerificationHandler(svc, nil)
	rr := postJSON(t, h.Request, "/v1/verifications/request", RequestCodeBody{Method: "email", Receiver: "a@b.com"})

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "could not send verification code", env.Error)
}

func TestRequest_HappyPath(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "mobile", "+1555").
		Return(verification.Result{Success: true, Message: "verification code sent"}, nil)

	h := NewVerificationHandler(svc, nil)
	rr := postJSON(t, h.Request, "/v1/verifications/request", RequestCodeBody{Method: "mobile", Receiver: "+1555"})

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

// --- Confirm ---

func TestConfirm_ValidationFailure(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{}, nil)
	rr := postJSON(t, h.Confirm, "/v1/verifications/confirm", ConfirmCodeBody{Receiver: "a@b.com"}) // missing code
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestConfirm_InvalidOrExpiredCode(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("ConfirmCode", mock.Anything, "a@b.com", "000000").Return(false, nil)

	h := NewVerificationHandler(svc, nil)
	rr := postJSON(t, h.Confirm, "/v1/verifications/confirm", ConfirmCodeBody{Receiver: "a@b.com", Code: "000000"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "invalid or expired code", env.Error)
}

func TestConfirm_HappyPathWithoutProofToken(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("ConfirmCode", mock.Anything, "a@b.com", "123456").Return(true, nil)

	h := NewVerificationHandler(svc, nil)
	rr := postJSON(t, h.Confirm, "/v1/verifications/confirm", ConfirmCodeBody{Receiver: "a@b.com", Code: "123456"})

	assert.Equal(t, http.StatusOK, rr.Code)
	var env ConfirmEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "verified", env.Message)
	assert.Empty(t, env.ProofToken)
}

func TestConfirm_StoreError(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("ConfirmCode", mock.Anything, "a@b.com", "123456").Return(false, assert.AnError)

	h := NewVerificationHandler(svc, nil)
	rr := postJSON(t, h.Confirm, "/v1/verifications/confirm", ConfirmCodeBody{Receiver: "a@b.com", Code: "123456"})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestConfirm_HappyPathWithProofToken(t *testing.T) {
	privKey, err := rsa.GenerateKey(cryptorand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))
	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	provider, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		ProofTokenTTL:     10 * time.Minute,
	})
	require.NoError(t, err)

	svc := &mockVerificationSvc{}
	svc.On("ConfirmCode", mock.Anything, "a@b.com", "123456").Return(true, nil)

	h := NewVerificationHandler(svc, provider)
	rr := postJSON(t, h.Confirm, "/v1/verifications/confirm", ConfirmCodeBody{Receiver: "a@b.com", Code: "123456"})

	assert.Equal(t, http.StatusOK, rr.Code)
	var env ConfirmEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NotEmpty(t, env.ProofToken)

	claims, err := provider.Verify(env.ProofToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Receiver)
}
