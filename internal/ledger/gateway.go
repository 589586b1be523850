// Package ledger implements the gateway boundary over the Fabric Gateway
// API. Consensus, endorsement and commit ordering all happen peer-side;
// this package only opens per-identity sessions and shuttles named
// transactions through them.
package ledger

import (
	"context"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/assetledger/assetledger/internal/config"
	"github.com/assetledger/assetledger/internal/usecase"
)

type Provider struct {
	cfg    config.Fabric
	wallet usecase.CredentialStore
	conn   *grpc.ClientConn
}

// NewProvider dials the gateway peer once; the shared grpc connection is
// multiplexed across all sessions.
func NewProvider(cfg config.Fabric, wallet usecase.CredentialStore) (*Provider, error) {
	creds, err := transportCredentials(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(cfg.PeerEndpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("dialing gateway peer %s: %w", cfg.PeerEndpoint, err)
	}
	return &Provider{cfg: cfg, wallet: wallet, conn: conn}, nil
}

func transportCredentials(cfg config.Fabric) (credentials.TransportCredentials, error) {
	if cfg.TLSCertPath == "" {
		return insecure.NewCredentials(), nil
	}
	pem, err := os.ReadFile(cfg.TLSCertPath)
	if err != nil {
		return nil, fmt.Errorf("reading peer TLS cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("peer TLS cert %s contains no certificates", cfg.TLSCertPath)
	}
	return credentials.NewClientTLSFromCert(pool, cfg.PeerHostname), nil
}

func (p *Provider) Close() error {
	return p.conn.Close()
}

// Connect opens a gateway session signed by the wallet identity for label.
func (p *Provider) Connect(ctx context.Context, label string) (usecase.LedgerSession, error) {
	cred, err := p.wallet.Get(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("loading identity %q: %w", label, err)
	}

	cert, err := identity.CertificateFromPEM(cred.Certificate)
	if err != nil {
		return nil, fmt.Errorf("parsing certificate for %q: %w", label, err)
	}
	id, err := identity.NewX509Identity(cred.MSPID, cert)
	if err != nil {
		return nil, fmt.Errorf("building identity for %q: %w", label, err)
	}
	key, err := identity.PrivateKeyFromPEM(cred.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing private key for %q: %w", label, err)
	}
	sign, err := identity.NewPrivateKeySign(key)
	if err != nil {
		return nil, fmt.Errorf("building signer for %q: %w", label, err)
	}

	gw, err := client.Connect(
		id,
		client.WithSign(sign),
		client.WithClientConnection(p.conn),
		client.WithEvaluateTimeout(5*time.Second),
		client.WithEndorseTimeout(15*time.Second),
		client.WithSubmitTimeout(5*time.Second),
		client.WithCommitStatusTimeout(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting gateway as %q: %w", label, err)
	}

	contract := gw.GetNetwork(p.cfg.Channel).GetContract(p.cfg.Chaincode)
	return &session{gw: gw, contract: contract}, nil
}

type session struct {
	gw       *client.Gateway
	contract *client.Contract
}

func (s *session) Evaluate(ctx context.Context, name string, args ...string) ([]byte, error) {
	return s.contract.EvaluateWithContext(ctx, name, client.WithArguments(args...))
}

func (s *session) Submit(ctx context.Context, name string, args ...string) ([]byte, error) {
	return s.contract.SubmitWithContext(ctx, name, client.WithArguments(args...))
}

func (s *session) SubmitWithEndorsers(ctx context.Context, name string, mspIDs []string, args ...string) ([]byte, error) {
	if len(mspIDs) == 0 {
		return s.Submit(ctx, name, args...)
	}
	return s.contract.SubmitWithContext(ctx, name,
		client.WithArguments(args...),
		client.WithEndorsingOrganizations(mspIDs...),
	)
}

func (s *session) Close() error {
	return s.gw.Close()
}
