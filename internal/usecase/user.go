package usecase

import (
	"context"
)

// Participant is a registered ledger user.
type Participant struct {
	Email     string `json:"emailAddress"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateUser records the participant on the ledger. The contract rejects
// duplicate email addresses.
func (u Usecase) CreateUser(ctx context.Context, email, firstName, lastName string) (Participant, error) {
	sess, err := u.ledger.Connect(ctx, email)
	if err != nil {
		return Participant{}, wrap(KindLedgerFailure, err, "connecting as %q", email)
	}
	defer sess.Close()

	payload, err := sess.Submit(ctx, "createUser", email, firstName, lastName)
	if err != nil {
		return Participant{}, wrap(KindLedgerFailure, err, "createUser %s", email)
	}
	var p Participant
	if err := decodeResult(payload, &p); err != nil {
		return Participant{}, err
	}
	return p, nil
}
