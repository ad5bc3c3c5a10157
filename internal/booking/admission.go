package booking

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/diegooyanes/MenuExpress/internal/metrics"
	"github.com/diegooyanes/MenuExpress/internal/model"
	"github.com/diegooyanes/MenuExpress/internal/queue"
	"github.com/diegooyanes/MenuExpress/internal/token"
)

// Admit runs the reservation admission protocol: field validation, a
// capacity pre-check and the transactional insert, serialized per bucket
// so two requests for the same restaurant, date and time never interleave
// between check and write.  On success the reservation is persisted as
// pending and both notification intents are dispatched; dispatch failures
// are logged but never surfaced, the booking already happened.
func (e *Engine) Admit(ctx context.Context, req SubmitRequest) (*model.Reservation, error) {
	if errs := e.validateSubmit(&req); errs != nil {
		metrics.IncAdmission(metrics.OutcomeInvalid)
		return nil, errs
	}

	rst, err := e.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !rst.ReservationsEnabled {
		metrics.IncAdmission(metrics.OutcomeRejected)
		return nil, ErrReservationsDisabled
	}

	res := &model.Reservation{
		Code:           uuid.NewString(),
		RestaurantID:   req.RestaurantID,
		UserID:         req.UserID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		NumberOfGuests: req.NumberOfGuests,
		Date:           req.Date,
		Time:           req.Time,
		Status:         model.StatusPending,
	}

	if err := e.admitLocked(ctx, res, rst.MaxCapacity); err != nil {
		if _, full := err.(*CapacityError); full {
			metrics.IncAdmission(metrics.OutcomeCapacity)
		}
		return nil, err
	}
	metrics.IncAdmission(metrics.OutcomeAdmitted)

	e.dispatchNotices(ctx, res, rst)
	return res, nil
}

// admitLocked holds the bucket mutex across the check-then-insert pair.
// The store's Create re-validates the same sum under a row lock, so even
// another process racing on the same bucket cannot overshoot the ceiling.
func (e *Engine) admitLocked(ctx context.Context, res *model.Reservation, maxCapacity int) error {
	unlock := e.locks.lock(bucketKey(res.RestaurantID, res.Date, res.Time))
	defer unlock()

	ok, err := e.hasCapacity(ctx, res.RestaurantID, res.Date, res.Time, res.NumberOfGuests, maxCapacity, 0)
	if err != nil {
		return err
	}
	if !ok {
		return &CapacityError{RestaurantID: res.RestaurantID, Date: res.Date, Time: res.Time}
	}

	if e.tables != nil {
		tableID, err := e.tables.FirstWithCapacity(ctx, res.RestaurantID, res.NumberOfGuests)
		if err != nil {
			// Table assignment is advisory; a lookup failure must not
			// block the booking.
			e.log.Warn().Err(err).Uint64("restaurant_id", res.RestaurantID).Msg("table lookup failed")
		} else {
			res.TableID = tableID
		}
	}

	return e.store.Create(ctx, res, maxCapacity)
}

// dispatchNotices publishes the diner confirmation and the restaurant
// alert for a freshly admitted reservation.  Runs outside the bucket lock
// and after the commit.
func (e *Engine) dispatchNotices(ctx context.Context, res *model.Reservation, rst *model.Restaurant) {
	if e.notifier == nil {
		return
	}

	confirmURL, err := e.actionURL(res.ID, token.PurposeConfirm)
	if err != nil {
		e.log.Error().Err(err).Uint64("reservation_id", res.ID).Msg("mint confirm token failed")
		return
	}
	cancelURL, err := e.actionURL(res.ID, token.PurposeCancel)
	if err != nil {
		e.log.Error().Err(err).Uint64("reservation_id", res.ID).Msg("mint cancel token failed")
		return
	}

	base := queue.ReservationNotice{
		ReservationID:  res.ID,
		Code:           res.Code,
		RestaurantID:   rst.ID,
		RestaurantName: rst.Name,
		GuestName:      res.FullName(),
		GuestEmail:     res.Email,
		Date:           res.Date,
		Time:           res.Time,
		Guests:         res.NumberOfGuests,
		CreatedAt:      e.now().UTC().Format(time.RFC3339),
	}

	diner := base
	diner.Kind = queue.KindDinerConfirmation
	diner.ConfirmURL = confirmURL
	diner.CancelURL = cancelURL
	if err := e.notifier.Publish(ctx, diner); err != nil {
		e.log.Warn().Err(err).Uint64("reservation_id", res.ID).Msg("diner notification dispatch failed")
	}

	alert := base
	alert.Kind = queue.KindRestaurantAlert
	alert.RestaurantEmail = rst.Email
	if err := e.notifier.Publish(ctx, alert); err != nil {
		e.log.Warn().Err(err).Uint64("reservation_id", res.ID).Msg("restaurant notification dispatch failed")
	}
}

// actionURL mints a purpose-scoped token for the reservation and embeds
// it in the matching public endpoint URL.
func (e *Engine) actionURL(reservationID uint64, purpose string) (string, error) {
	tok, err := token.Issue(e.secret, reservationID, purpose, e.tokenTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/v1/reservations/%s?token=%s", e.baseURL, purpose, url.QueryEscape(tok)), nil
}
