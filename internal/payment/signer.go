package payment

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashCase is the hex letter case used for every digest the gateway sees.
// It must be identical on the signing and the verification path.
type HashCase string

const (
	HashCaseUpper HashCase = "upper"
	HashCaseLower HashCase = "lower"
)

func ParseHashCase(s string) (HashCase, error) {
	switch HashCase(strings.ToLower(strings.TrimSpace(s))) {
	case HashCaseUpper:
		return HashCaseUpper, nil
	case HashCaseLower:
		return HashCaseLower, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHashCase, s)
}

// Digest is the hashed merchant secret. It is a derived credential and is
// never printed.
type Digest string

func (Digest) String() string { return "[REDACTED]" }

// Signer computes checkout signatures and verifies notification signatures.
// It holds no mutable state and is safe for concurrent use.
type Signer struct {
	hashCase HashCase
}

func NewSigner(hashCase HashCase) (*Signer, error) {
	if hashCase != HashCaseUpper && hashCase != HashCaseLower {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHashCase, hashCase)
	}
	return &Signer{hashCase: hashCase}, nil
}

func (s *Signer) HashCase() HashCase {
	return s.hashCase
}

func (s *Signer) ComputeMerchantSecretDigest(secret string) Digest {
	return Digest(s.hash(secret))
}

// Sign signs merchant_id + order_id + amount + currency + digest.
// The digest is used exactly as given.
func (s *Signer) Sign(req PaymentRequest, digest Digest) (*SignedCheckout, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	amount, err := FormatDecimal(req.Amount)
	if err != nil {
		return nil, err
	}

	sig := s.hash(req.MerchantID + req.OrderID + amount + req.Currency + string(digest))

	return &SignedCheckout{
		Request:   req,
		Amount:    amount,
		Signature: sig,
	}, nil
}

// NotificationSignature is the signature the gateway is expected to attach
// to n: merchant_id + order_id + amount + currency + status_code + digest.
func (s *Signer) NotificationSignature(n InboundNotification, digest Digest) string {
	return s.hash(n.MerchantID + n.OrderID + n.Amount + n.Currency + n.StatusCode + string(digest))
}

// Verify reports whether the notification carries a signature produced with
// the same merchant secret and hash case. It never returns an error; any
// mismatch is false.
func (s *Signer) Verify(n InboundNotification, digest Digest) bool {
	if n.ProvidedSignature == "" || digest == "" {
		return false
	}
	expected := s.NotificationSignature(n, digest)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.ProvidedSignature)) == 1
}

func (s *Signer) hash(in string) string {
	sum := md5.Sum([]byte(in))
	out := hex.EncodeToString(sum[:])
	if s.hashCase == HashCaseUpper {
		return strings.ToUpper(out)
	}
	return out
}
