package config

import (
	"fmt"
	"os"
	"strings"
)

// Header constants.
const (
	HEADER_KEY_X_USER_ID = "X-User-Id"
)

const (
	ENV_KEY_APP_ENV   = "APP_ENV"
	ENV_KEY_PORT      = "PORT"
	ENV_KEY_LOG_LEVEL = "LOG_LEVEL"

	ENV_KEY_FABRIC_MSP_ID         = "FABRIC_MSP_ID"
	ENV_KEY_FABRIC_PEER_ENDPOINT  = "FABRIC_PEER_ENDPOINT"
	ENV_KEY_FABRIC_PEER_HOSTNAME  = "FABRIC_PEER_HOSTNAME"
	ENV_KEY_FABRIC_TLS_CERT_PATH  = "FABRIC_TLS_CERT_PATH"
	ENV_KEY_FABRIC_CHANNEL        = "FABRIC_CHANNEL"
	ENV_KEY_FABRIC_CHAINCODE      = "FABRIC_CHAINCODE"
	ENV_KEY_FABRIC_ADMIN_USER     = "FABRIC_ADMIN_USER"
	ENV_KEY_FABRIC_ENDORSING_ORGS = "FABRIC_ENDORSING_ORGS"
	ENV_KEY_FABRIC_WALLET_PATH    = "FABRIC_WALLET_PATH"
	ENV_KEY_FABRIC_CA_URL         = "FABRIC_CA_URL"
	ENV_KEY_FABRIC_CA_NAME        = "FABRIC_CA_NAME"

	ENV_KEY_MINIO_BUCKET     = "MINIO_BUCKET"
	ENV_KEY_MINIO_ENDPOINT   = "MINIO_ENDPOINT"
	ENV_KEY_MINIO_ACCESS_KEY = "MINIO_ACCESS_KEY"
	ENV_KEY_MINIO_SECRET_KEY = "MINIO_SECRET_KEY"

	ENV_KEY_SMTP_HOST     = "SMTP_HOST"
	ENV_KEY_SMTP_PORT     = "SMTP_PORT"
	ENV_KEY_SMTP_USERNAME = "SMTP_USERNAME"
	ENV_KEY_SMTP_PASSWORD = "SMTP_PASSWORD"
	ENV_KEY_SENDER_EMAIL  = "SENDER_EMAIL"

	ENV_KEY_REDIS_HOST         = "REDIS_HOST"
	ENV_KEY_REDIS_PORT         = "REDIS_PORT"
	ENV_KEY_REDIS_PASSWORD     = "REDIS_PASSWORD"
	ENV_KEY_WORKER_CONCURRENCY = "WORKER_CONCURRENCY"
)

type ContextKey uint

const (
	_ ContextKey = iota
	CTX_KEY_USER_EMAIL
)

// Fabric carries the ledger connection parameters. It is built once at
// startup and injected into the providers that need it, never read from
// ambient process state after that.
type Fabric struct {
	MSPID         string
	PeerEndpoint  string
	PeerHostname  string
	TLSCertPath   string
	Channel       string
	Chaincode     string
	AdminUser     string
	EndorsingOrgs []string
	WalletPath    string
	CAURL         string
	CAName        string
}

func LoadFabric() (Fabric, error) {
	cfg := Fabric{
		MSPID:        os.Getenv(ENV_KEY_FABRIC_MSP_ID),
		PeerEndpoint: os.Getenv(ENV_KEY_FABRIC_PEER_ENDPOINT),
		PeerHostname: os.Getenv(ENV_KEY_FABRIC_PEER_HOSTNAME),
		TLSCertPath:  os.Getenv(ENV_KEY_FABRIC_TLS_CERT_PATH),
		Channel:      os.Getenv(ENV_KEY_FABRIC_CHANNEL),
		Chaincode:    os.Getenv(ENV_KEY_FABRIC_CHAINCODE),
		AdminUser:    os.Getenv(ENV_KEY_FABRIC_ADMIN_USER),
		WalletPath:   os.Getenv(ENV_KEY_FABRIC_WALLET_PATH),
		CAURL:        os.Getenv(ENV_KEY_FABRIC_CA_URL),
		CAName:       os.Getenv(ENV_KEY_FABRIC_CA_NAME),
	}
	if orgs := os.Getenv(ENV_KEY_FABRIC_ENDORSING_ORGS); orgs != "" {
		for _, org := range strings.Split(orgs, ",") {
			if org = strings.TrimSpace(org); org != "" {
				cfg.EndorsingOrgs = append(cfg.EndorsingOrgs, org)
			}
		}
	}
	for _, f := range []struct{ key, val string }{
		{ENV_KEY_FABRIC_MSP_ID, cfg.MSPID},
		{ENV_KEY_FABRIC_PEER_ENDPOINT, cfg.PeerEndpoint},
		{ENV_KEY_FABRIC_CHANNEL, cfg.Channel},
		{ENV_KEY_FABRIC_CHAINCODE, cfg.Chaincode},
		{ENV_KEY_FABRIC_ADMIN_USER, cfg.AdminUser},
		{ENV_KEY_FABRIC_WALLET_PATH, cfg.WalletPath},
	} {
		if f.val == "" {
			return Fabric{}, fmt.Errorf("config: %s is required", f.key)
		}
	}
	return cfg, nil
}
