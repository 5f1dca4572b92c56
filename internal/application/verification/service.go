// Package verification orchestrates the OTP lifecycle: generate, store,
// dispatch on request; look up and consume on confirm.
package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/verify-api/internal/domain"
	"github.com/verify-api/internal/notify"
	"github.com/verify-api/internal/pkg/id"
	"github.com/verify-api/internal/pkg/otp"
	"github.com/verify-api/internal/store"
)

// Result is the outcome of a code request. Message is safe to show to the
// end user: it never contains the code or raw transport detail.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Service interface {
	// RequestCode generates a code, stores it, and dispatches it over the
	// chosen channel. The store write always happens before dispatch is
	// attempted, so a dispatch failure leaves a valid waiting code behind.
	// An unknown method yields a domain.ErrBadRequest-wrapped error; a
	// dispatch failure is reported as a failed Result, not an error.
	RequestCode(ctx context.Context, method, receiver string) (Result, error)

	// ConfirmCode redeems the pending code for receiver. False covers
	// wrong, expired, and absent codes alike — callers must not be able to
	// tell which receivers have codes pending.
	ConfirmCode(ctx context.Context, receiver, code string) (bool, error)
}

// Deps holds everything a Service needs. Dispatchers maps each configured
// channel to its transport.
type Deps struct {
	Store       store.Store
	Dispatchers map[domain.Channel]notify.Dispatcher
	CodeLength  int
	TTL         time.Duration
}

type service struct {
	store       store.Store
	dispatchers map[domain.Channel]notify.Dispatcher
	codeLength  int
	ttl         time.Duration
}

func NewService(deps Deps) Service {
	return &service{
		store:       deps.Store,
		dispatchers: deps.Dispatchers,
		codeLength:  deps.CodeLength,
		ttl:         deps.TTL,
	}
}

func (s *service) RequestCode(ctx context.Context, method, receiver string) (Result, error) {
	ch, err := domain.ParseChannel(method)
	if err != nil {
		return Result{}, err
	}

	code, err := otp.Generate(s.codeLength)
	if err != nil {
		return Result{}, fmt.Errorf("generate code: %w", err)
	}

	// Challenge id for log correlation only; matching is by receiver + code.
	cid := id.New()

	if err := s.store.Put(ctx, receiver, code, s.ttl); err != nil {
		return Result{}, fmt.Errorf("store code: %w", err)
	}

	d, ok := s.dispatchers[ch]
	if !ok {
		slog.Warn("verification channel not configured", "challenge_id", cid, "channel", ch)
		return Result{Success: false, Message: "could not send verification code"}, nil
	}
	if err := d.Send(ctx, receiver, code, s.ttl); err != nil {
		// The stored code stays valid; the user can request a new one.
		slog.Warn("verification dispatch failed", "challenge_id", cid, "channel", ch, "err", err)
		return Result{Success: false, Message: "could not send verification code"}, nil
	}

	slog.Info("verification code dispatched", "challenge_id", cid, "channel", ch)
	return Result{Success: true, Message: "verification code sent"}, nil
}

func (s *service) ConfirmCode(ctx context.Context, receiver, code string) (bool, error) {
	ok, err := s.store.Consume(ctx, receiver, code)
	if err != nil {
		return false, fmt.Errorf("consume code: %w", err)
	}
	return ok, nil
}
