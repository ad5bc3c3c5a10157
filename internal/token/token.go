// Package token issues and verifies the signed capability tokens that let
// an unauthenticated diner confirm or cancel a specific reservation from
// an emailed link.  A token is scoped to one reservation and one purpose
// and expires on its own schedule.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purposes a capability token can be minted for.
const (
	PurposeConfirm = "confirm"
	PurposeCancel  = "cancel"
)

// DefaultTTL is the lifetime of confirm/cancel links when the caller does
// not override it.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalid covers every verification failure: bad signature, wrong
// purpose, expired or malformed token.  The caller must not be able to
// tell which check failed.
var ErrInvalid = errors.New("invalid or expired link")

// Issue signs an HS256 token granting the given purpose on a single
// reservation.  The claims carry the reservation ID as the subject, the
// purpose and the expiry.
func Issue(secret string, reservationID uint64, purpose string, ttl time.Duration) (string, error) {
	if purpose != PurposeConfirm && purpose != PurposeCancel {
		return "", errors.New("unknown token purpose: " + purpose)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(reservationID, 10),
		"prp": purpose,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Verify checks signature, expiry and purpose, returning the reservation
// ID the token grants access to.  Every failure mode returns ErrInvalid;
// a forged or expired token never resolves to a reservation.
func Verify(secret, raw, wantPurpose string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return 0, ErrInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalid
	}
	if prp, _ := claims["prp"].(string); prp != wantPurpose {
		return 0, ErrInvalid
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalid
	}
	return id, nil
}
