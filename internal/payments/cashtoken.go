package payments

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/types"
)

const cashMethod = "cash"

var errInvalidCashToken = errors.New("invalid cash token")

// CashToken is the payload shown to the rider as a QR code and redeemed by
// the driver.
type CashToken struct {
	OrderID   *uuid.UUID    `json:"orderId"`
	RideID    *uuid.UUID    `json:"rideId"`
	Amount    types.Decimal `json:"amount"`
	Timestamp int64         `json:"timestamp"`
	Method    string        `json:"method"`
}

// CashSigner encodes tokens as base64url(json) "." base64url(hmac-sha256).
type CashSigner struct {
	secret []byte
}

func NewCashSigner(secret string) *CashSigner {
	return &CashSigner{secret: []byte(secret)}
}

// RandomSecret returns a process-local secret for when none is configured.
// Tokens signed with it do not survive a restart.
func RandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *CashSigner) Encode(token CashToken) (string, error) {
	payload, err := json.Marshal(token)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + base64.RawURLEncoding.EncodeToString(s.sign(body)), nil
}

// Decode verifies the signature before parsing the payload.
func (s *CashSigner) Decode(raw string) (*CashToken, error) {
	body, sig, ok := strings.Cut(strings.TrimSpace(raw), ".")
	if !ok || body == "" || sig == "" {
		return nil, errInvalidCashToken
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, s.sign(body)) {
		return nil, errInvalidCashToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, errInvalidCashToken
	}
	var token CashToken
	if err := json.Unmarshal(payload, &token); err != nil {
		return nil, errInvalidCashToken
	}
	if token.Method != cashMethod {
		return nil, errInvalidCashToken
	}
	return &token, nil
}

func (s *CashSigner) sign(body string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(body))
	return mac.Sum(nil)
}

// redemptionRef is stored as the payment's external ref so a token can only
// be redeemed once.
func redemptionRef(raw string) string {
	_, sig, _ := strings.Cut(strings.TrimSpace(raw), ".")
	return "cash_" + sig
}
