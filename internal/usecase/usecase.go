package usecase

import (
	"context"

	"github.com/assetledger/assetledger/internal/config"
)

// LedgerSession is a connected, single-use view of the ledger for one
// caller identity. Every lifecycle operation owns exactly one session and
// closes it on all exit paths; a session must not be reused after the
// operation that opened it returns.
type LedgerSession interface {
	// Evaluate runs a read-only query. Safe to retry.
	Evaluate(ctx context.Context, name string, args ...string) ([]byte, error)
	// Submit proposes and commits a state change with the default
	// endorsement policy. Not safely retryable: side effects such as
	// chaincode events may already have fired on partial failure.
	Submit(ctx context.Context, name string, args ...string) ([]byte, error)
	// SubmitWithEndorsers pins the proposal to an explicit set of
	// endorsing organizations.
	SubmitWithEndorsers(ctx context.Context, name string, mspIDs []string, args ...string) ([]byte, error)
	Close() error
}

// LedgerProvider opens ledger sessions for registered identities.
type LedgerProvider interface {
	Connect(ctx context.Context, identity string) (LedgerSession, error)
}

// FileStorageProvider is the external artifact store holding the raw asset
// binaries. Live objects are keyed by asset id, staged candidates by their
// disambiguated file name.
type FileStorageProvider interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	Download(ctx context.Context, name string) ([]byte, error)
	// Promote moves a staged object over the live one.
	Promote(ctx context.Context, stagedName, liveName string) error
}

// Credential is the material persisted for a registered identity.
type Credential struct {
	MSPID       string `json:"mspId"`
	Certificate []byte `json:"certificate"`
	PrivateKey  []byte `json:"privateKey"`
}

// CredentialStore persists enrolled identities, keyed by email address.
type CredentialStore interface {
	Exists(ctx context.Context, label string) (bool, error)
	Get(ctx context.Context, label string) (Credential, error)
	Import(ctx context.Context, label string, cred Credential) error
}

// CertificateAuthority registers and enrolls identities with the ledger's
// CA. Registration requires the pre-enrolled admin's credential.
type CertificateAuthority interface {
	Register(ctx context.Context, admin Credential, enrollmentID string) (string, error)
	Enroll(ctx context.Context, enrollmentID, secret string) (Credential, error)
}

// MailProvider dispatches notification emails. Fire and forget: failures
// are logged by the provider, never surfaced to the originating operation.
type MailProvider interface {
	SendEmail(ctx context.Context, email Email) error
}

func New(
	ledger LedgerProvider,
	storage FileStorageProvider,
	wallet CredentialStore,
	ca CertificateAuthority,
	pub EventPublisher,
	cfg config.Fabric,
) Usecase {
	return Usecase{
		ledger:  ledger,
		storage: storage,
		wallet:  wallet,
		ca:      ca,
		pub:     pub,
		cfg:     cfg,
	}
}

type Usecase struct {
	ledger  LedgerProvider
	storage FileStorageProvider
	wallet  CredentialStore
	ca      CertificateAuthority
	pub     EventPublisher
	cfg     config.Fabric
}
