package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsheets/internal/auth"
	"github.com/mmynk/splitsheets/internal/calculator"
	"github.com/mmynk/splitsheets/internal/money"
	"github.com/mmynk/splitsheets/internal/storage"
)

// SplitDifferenceHeader carries the signed amount a rejected split is off by
// ("add" when positive, "remove" when negative), in the unit of the error.
const SplitDifferenceHeader = "Split-Difference"

var (
	errNotMember = errors.New("not a participant of this sheet")
	errNotAdmin  = errors.New("only sheet admins can do this")
	errArchived  = errors.New("sheet is archived")
)

// invalidArgument reports a malformed request.
func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// toConnectError maps domain and storage errors to connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var splitErr *calculator.InvalidSplitError
	switch {
	case errors.As(err, &splitErr):
		ce := connect.NewError(connect.CodeInvalidArgument, err)
		if splitErr.Reason == "" {
			ce.Meta().Set(SplitDifferenceHeader, splitErr.Difference().String())
		}
		return ce
	case errors.Is(err, calculator.ErrUnbalancedLedger), errors.Is(err, money.ErrCurrencyMismatch):
		return connect.NewError(connect.CodeInternal, err)
	case errors.Is(err, money.ErrPrecisionLoss),
		errors.Is(err, money.ErrOverflow),
		errors.Is(err, money.ErrInvalidScale),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrNegativeWeight),
		errors.Is(err, calculator.ErrInvalidTransaction),
		errors.Is(err, calculator.ErrUnknownParticipant):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errNotMember), errors.Is(err, errNotAdmin):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errArchived):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
