// Package ca is a minimal Fabric CA REST client: just enough to register
// an enrollment id under the admin's authority and enroll it into a
// signing credential. Certificate issuance itself happens CA-side.
package ca

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"time"

	"github.com/assetledger/assetledger/internal/config"
	"github.com/assetledger/assetledger/internal/usecase"
)

type Client struct {
	url    string
	caName string
	mspID  string
	httpc  *http.Client
}

func New(cfg config.Fabric) *Client {
	return &Client{
		url:    cfg.CAURL,
		caName: cfg.CAName,
		mspID:  cfg.MSPID,
		httpc:  &http.Client{Timeout: 30 * time.Second},
	}
}

type caResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) post(ctx context.Context, path, authorization string, basicUser, basicPass string, body []byte, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if basicUser != "" {
		req.SetBasicAuth(basicUser, basicPass)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("ca: %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env caResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("ca: decoding %s response: %w", path, err)
	}
	if !env.Success {
		if len(env.Errors) > 0 {
			return fmt.Errorf("ca: %s: %s (code %d)", path, env.Errors[0].Message, env.Errors[0].Code)
		}
		return fmt.Errorf("ca: %s failed", path)
	}
	return json.Unmarshal(env.Result, result)
}

// Register creates the enrollment id on the CA and returns its one-time
// secret. The request is authorized with a token signed by the admin's
// enrollment key.
func (c *Client) Register(ctx context.Context, admin usecase.Credential, enrollmentID string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"id":              enrollmentID,
		"type":            "client",
		"max_enrollments": -1,
		"caname":          c.caName,
	})
	if err != nil {
		return "", err
	}

	token, err := signToken(admin, body)
	if err != nil {
		return "", fmt.Errorf("ca: building register token: %w", err)
	}

	var result struct {
		Secret string `json:"secret"`
	}
	if err := c.post(ctx, "/api/v1/register", token, "", "", body, &result); err != nil {
		return "", err
	}
	return result.Secret, nil
}

// Enroll trades the registration secret for a signed certificate. The key
// pair is generated locally and never leaves this process.
func (c *Client) Enroll(ctx context.Context, enrollmentID, secret string) (usecase.Credential, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return usecase.Credential{}, fmt.Errorf("ca: generating key: %w", err)
	}

	csrDER, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
		Subject:            pkix.Name{CommonName: enrollmentID},
		SignatureAlgorithm: x509.ECDSAWithSHA256,
	}, key)
	if err != nil {
		return usecase.Credential{}, fmt.Errorf("ca: building CSR: %w", err)
	}
	csrPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: csrDER})

	body, err := json.Marshal(map[string]string{
		"certificate_request": string(csrPEM),
		"caname":              c.caName,
	})
	if err != nil {
		return usecase.Credential{}, err
	}

	var result struct {
		Cert string `json:"Cert"`
	}
	if err := c.post(ctx, "/api/v1/enroll", "", enrollmentID, secret, body, &result); err != nil {
		return usecase.Credential{}, err
	}
	certPEM, err := base64.StdEncoding.DecodeString(result.Cert)
	if err != nil {
		return usecase.Credential{}, fmt.Errorf("ca: decoding enrollment certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return usecase.Credential{}, fmt.Errorf("ca: encoding private key: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})

	return usecase.Credential{
		MSPID:       c.mspID,
		Certificate: certPEM,
		PrivateKey:  keyPEM,
	}, nil
}

// signToken builds the CA's authorization token: base64(cert).base64(sig)
// where sig is the admin key's ECDSA signature over
// base64(body).base64(cert).
func signToken(admin usecase.Credential, body []byte) (string, error) {
	block, _ := pem.Decode(admin.PrivateKey)
	if block == nil {
		return "", fmt.Errorf("admin private key is not PEM")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return "", err
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return "", fmt.Errorf("admin private key is not ECDSA")
	}

	b64Cert := base64.StdEncoding.EncodeToString(admin.Certificate)
	b64Body := base64.StdEncoding.EncodeToString(body)
	digest := sha256.Sum256([]byte(b64Body + "." + b64Cert))

	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return "", err
	}
	return b64Cert + "." + base64.StdEncoding.EncodeToString(sig), nil
}
