package usecase

import (
	"context"
	"fmt"
)

// RegisterUser enrolls a new participant identity with the certificate
// authority and persists the credential. Registration needs the
// pre-enrolled admin identity; without it nothing else can run, so the
// precondition is checked before touching the CA.
func (u Usecase) RegisterUser(ctx context.Context, email, firstName, lastName string) (string, error) {
	if email == "" || firstName == "" || lastName == "" {
		return "", errf(KindInvalidArgument, "email, first name and last name are all required")
	}

	exists, err := u.wallet.Exists(ctx, email)
	if err != nil {
		return "", wrap(KindExternalIO, err, "checking wallet for %q", email)
	}
	if exists {
		return "", errf(KindAlreadyExists, "an identity for %q already exists in the wallet", email)
	}

	adminExists, err := u.wallet.Exists(ctx, u.cfg.AdminUser)
	if err != nil {
		return "", wrap(KindExternalIO, err, "checking wallet for admin %q", u.cfg.AdminUser)
	}
	if !adminExists {
		return "", errf(KindPreconditionFailed,
			"admin identity %q is not enrolled; enroll the admin before registering users", u.cfg.AdminUser)
	}

	admin, err := u.wallet.Get(ctx, u.cfg.AdminUser)
	if err != nil {
		return "", wrap(KindExternalIO, err, "loading admin credential")
	}

	secret, err := u.ca.Register(ctx, admin, email)
	if err != nil {
		return "", wrap(KindLedgerFailure, err, "registering %q with the CA", email)
	}
	cred, err := u.ca.Enroll(ctx, email, secret)
	if err != nil {
		return "", wrap(KindLedgerFailure, err, "enrolling %q", email)
	}

	if err := u.wallet.Import(ctx, email, cred); err != nil {
		return "", wrap(KindExternalIO, err, "importing credential for %q", email)
	}

	return fmt.Sprintf("Successfully registered user %s %s. Use userName %s to login.",
		firstName, lastName, email), nil
}
