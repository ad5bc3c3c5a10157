package booking

import (
	"context"
	"errors"

	"github.com/diegooyanes/MenuExpress/internal/metrics"
	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/token"
)

// ConfirmByToken redeems a confirmation link.  Expired, tampered,
// wrong-purpose and dangling tokens all collapse into token.ErrInvalid so
// the response leaks nothing about why the link failed.  Redeeming an
// already confirmed reservation is a no-op, and a cancelled reservation
// stays cancelled.
func (e *Engine) ConfirmByToken(ctx context.Context, raw string) (*model.Reservation, error) {
	res, err := e.resolveToken(ctx, raw, token.PurposeConfirm)
	if err != nil {
		metrics.IncRedemption(token.PurposeConfirm, metrics.OutcomeRejected)
		return nil, err
	}

	if res.Status == model.StatusPending {
		if err := e.setStatus(ctx, res, model.StatusConfirmed); err != nil {
			return nil, err
		}
	}
	metrics.IncRedemption(token.PurposeConfirm, metrics.OutcomeOK)
	return res, nil
}

// CancelByToken redeems a cancellation link.  The one-hour window guard
// applies; cancelling an already cancelled reservation is a no-op and
// skips the guard.
func (e *Engine) CancelByToken(ctx context.Context, raw string) (*model.Reservation, error) {
	res, err := e.resolveToken(ctx, raw, token.PurposeCancel)
	if err != nil {
		metrics.IncRedemption(token.PurposeCancel, metrics.OutcomeRejected)
		return nil, err
	}

	if res.Status != model.StatusCancelled {
		if err := e.cancel(ctx, res); err != nil {
			metrics.IncRedemption(token.PurposeCancel, metrics.OutcomeRejected)
			return nil, err
		}
	}
	metrics.IncRedemption(token.PurposeCancel, metrics.OutcomeOK)
	return res, nil
}

// CancelByOwner cancels a reservation on behalf of the authenticated
// diner who placed it.  Ownership is checked before the window guard so a
// foreign reservation never reveals its timing.
func (e *Engine) CancelByOwner(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	res, err := e.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID == nil || *res.UserID != userID {
		return nil, ErrNotOwner
	}
	if res.Status == model.StatusCancelled {
		return res, nil
	}
	if err := e.cancel(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// resolveToken verifies a capability token and loads the reservation it
// points at.  A valid token whose reservation has since disappeared is
// reported as an invalid link, not as a not-found, to keep the two
// failure modes indistinguishable to the caller.
func (e *Engine) resolveToken(ctx context.Context, raw, purpose string) (*model.Reservation, error) {
	id, err := token.Verify(e.secret, raw, purpose)
	if err != nil {
		return nil, err
	}
	res, err := e.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return nil, token.ErrInvalid
		}
		return nil, err
	}
	return res, nil
}

// cancel applies the window guard and flips the status.  Callers handle
// the already-cancelled no-op themselves.
func (e *Engine) cancel(ctx context.Context, res *model.Reservation) error {
	if !res.Cancellable(e.now(), e.loc) {
		return &CancellationWindowError{Date: res.Date, Time: res.Time}
	}
	return e.setStatus(ctx, res, model.StatusCancelled)
}

func (e *Engine) setStatus(ctx context.Context, res *model.Reservation, status string) error {
	if err := e.store.UpdateStatus(ctx, res.ID, status); err != nil {
		return err
	}
	res.Status = status
	return nil
}
