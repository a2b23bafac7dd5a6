package rpc

import (
	"errors"

	"github.com/dmitrymomot/notesaas/handler"
	"github.com/dmitrymomot/notesaas/pkg/binder"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/pkg/validator"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
	"github.com/dmitrymomot/notesaas/svc/billing"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

type errorClass struct {
	status handler.HTTPError
	errs   []error
}

var errorClasses = []errorClass{
	{handler.ErrNotFound, []error{
		account.ErrAccountNotFound,
		account.ErrPlanNotFound,
		account.ErrMembershipNotFound,
		account.ErrUserNotFound,
		notes.ErrNoteNotFound,
	}},
	{handler.ErrPaymentNeeded, []error{
		account.ErrAIGenLimitReached,
		account.ErrNoteLimitReached,
	}},
	{handler.ErrBadRequest, []error{
		account.ErrAlreadyOwner,
		account.ErrUseClaimOwnership,
		account.ErrAlreadyMember,
		account.ErrTooManyMembers,
		account.ErrMembershipAccountMismatch,
		account.ErrInvalidAccess,
		auth.ErrPendingMembership,
		notes.ErrEmptyNote,
		notes.ErrEmptyPrompt,
		billing.ErrNoStripeCustomer,
		billing.ErrBillingDisabled,
		binder.ErrFailedToParseJSON,
		binder.ErrUnsupportedMediaType,
		binder.ErrBodyTooLarge,
	}},
	{handler.ErrUnauthorized, []error{
		auth.ErrUnauthenticated,
	}},
	{handler.ErrForbidden, []error{
		account.ErrOnlyAdminsCanClaim,
		auth.ErrNoActiveAccount,
		rbac.ErrInsufficientPermissions,
		rbac.ErrInvalidRole,
	}},
	{handler.ErrBadGateway, []error{
		notes.ErrGenerationFailed,
		billing.ErrGatewayFailed,
	}},
}

// Classify converts domain errors into HTTPError values. Errors that already
// carry a status, validation errors and unknown errors pass through.
func Classify(err error) error {
	if err == nil || validator.IsValidationError(err) {
		return err
	}
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	for _, c := range errorClasses {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.status.Wrap(err).WithMessage(target.Error())
			}
		}
	}
	return err
}
