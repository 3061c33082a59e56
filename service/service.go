// Package service holds the booking, quotation, station, customer, report and
// auth workflows. Services validate input, translate store errors into
// apperrors, and send notifications only after a mutation has succeeded.
package service

import (
	"context"
	"errors"
	"strings"

	"bharatparcel/apperrors"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/notify"
	"bharatparcel/repository"
)

// Notifiers groups the delivery channels a service may use. Nil channels are
// replaced with notify.Nop.
type Notifiers struct {
	Email    notify.Notifier
	WhatsApp notify.Notifier
}

func (n Notifiers) withDefaults() Notifiers {
	if n.Email == nil {
		n.Email = notify.Nop{}
	}
	if n.WhatsApp == nil {
		n.WhatsApp = notify.Nop{}
	}
	return n
}

// bestEffort sends msg and logs a failure instead of returning it.
func bestEffort(ctx context.Context, log *logger.Logger, n notify.Notifier, to string, msg notify.Message, ref string) {
	if strings.TrimSpace(to) == "" {
		log.Warn("Notification skipped, no recipient", "ref", ref, "subject", msg.Subject)
		return
	}
	if err := n.Send(ctx, to, msg); err != nil {
		log.Warn("Notification failed",
			"ref", ref,
			"subject", msg.Subject,
			"error", err,
		)
		return
	}
	log.Info("Notification sent", "ref", ref, "subject", msg.Subject)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrStationNotFound)
}

// storeFailure logs err and hides it behind a 500 that keeps the cause.
func storeFailure(log *logger.Logger, message string, err error, args ...any) *apperrors.AppError {
	log.Error(message, append(args, "error", err)...)
	return apperrors.Internal(message, err)
}

func requireStaff(user models.RequestingUser) error {
	if !user.IsStaff() {
		return apperrors.Forbidden("Access denied")
	}
	return nil
}
