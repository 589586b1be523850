package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrollAdmin(t *testing.T, w *world) {
	t.Helper()
	require.NoError(t, w.wallet.Import(context.Background(), "admin", Credential{MSPID: "TestMSP"}))
}

func TestRegisterUser(t *testing.T) {
	w := newWorld()
	enrollAdmin(t, w)

	msg, err := w.uc.RegisterUser(context.Background(), carol, "Carol", "Jones")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Successfully registered user Carol Jones. Use userName %s to login.", carol), msg)

	// Registered with the CA and the credential landed in the wallet.
	assert.Equal(t, []string{carol}, w.ca.registered)
	assert.Equal(t, []string{carol}, w.ca.enrolled)
	exists, err := w.wallet.Exists(context.Background(), carol)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegisterUserRequiresAllFields(t *testing.T) {
	w := newWorld()
	enrollAdmin(t, w)

	for _, tc := range []struct{ email, first, last string }{
		{"", "Carol", "Jones"},
		{carol, "", "Jones"},
		{carol, "Carol", ""},
	} {
		_, err := w.uc.RegisterUser(context.Background(), tc.email, tc.first, tc.last)
		require.Error(t, err)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	}
	assert.Empty(t, w.ca.registered)
}

func TestRegisterUserAlreadyEnrolled(t *testing.T) {
	w := newWorld()
	enrollAdmin(t, w)

	_, err := w.uc.RegisterUser(context.Background(), carol, "Carol", "Jones")
	require.NoError(t, err)

	_, err = w.uc.RegisterUser(context.Background(), carol, "Carol", "Jones")
	require.Error(t, err)
	assert.Equal(t, KindAlreadyExists, KindOf(err))
	assert.Len(t, w.ca.registered, 1)
}

func TestRegisterUserWithoutAdmin(t *testing.T) {
	w := newWorld()

	_, err := w.uc.RegisterUser(context.Background(), carol, "Carol", "Jones")
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))
	assert.Empty(t, w.ca.registered)
}

func TestRegisterUserCAFailure(t *testing.T) {
	w := newWorld()
	enrollAdmin(t, w)
	w.ca.failRegister = errors.New("ca unreachable")

	_, err := w.uc.RegisterUser(context.Background(), carol, "Carol", "Jones")
	require.Error(t, err)
	assert.Equal(t, KindLedgerFailure, KindOf(err))

	// No half-registered identity in the wallet.
	exists, err := w.wallet.Exists(context.Background(), carol)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateUser(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	p, err := w.uc.CreateUser(ctx, carol, "Carol", "Jones")
	require.NoError(t, err)
	assert.Equal(t, Participant{Email: carol, FirstName: "Carol", LastName: "Jones"}, p)

	_, err = w.uc.CreateUser(ctx, carol, "Carol", "Jones")
	require.Error(t, err)
	assert.Equal(t, KindAlreadyExists, KindOf(err))
}
