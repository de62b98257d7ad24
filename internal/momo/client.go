package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"adhouse/internal/status"
	"adhouse/models"
	"adhouse/utils"

	"github.com/google/uuid"
)

const (
	currencyGHS = "GHS"

	payerMessage = "Payment for Ad Listing on AdHouse"
	payeeNote    = "Ad Listing Payment"
)

// connect makes an http call to obtain a bearer token from the Collections
// token endpoint. Tokens are short-lived and fetched per attempt.
func (m *momo) connect(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/collection/v1_0/token/", nil)
	if err != nil {
		return "", fmt.Errorf("connect: http.NewRequestWithContext: %w", err)
	}
	req.SetBasicAuth(m.userID, m.userSecret)
	req.Header.Set("Ocp-Apim-Subscription-Key", m.subscriptionKey)

	resp, err := m.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("connect: hc.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("connect: resp.StatusCode: %d: %w", resp.StatusCode, status.ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rbody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("connect: resp.StatusCode: %d, resp.Body: %s", resp.StatusCode, rbody)
	}

	var reply struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return "", fmt.Errorf("connect: json.Decode: %w", err)
	}

	return reply.AccessToken, nil
}

type (
	requestToPayReq struct {
		Amount     string `json:"amount"`
		Currency   string `json:"currency"`
		ExternalID string `json:"externalId"`
		Payer      party  `json:"payer"`

		PayerMessage string `json:"payerMessage"`
		PayeeNote    string `json:"payeeNote"`
	}

	party struct {
		PartyIDType string `json:"partyIdType"`
		PartyID     string `json:"partyId"`
	}
)

// RequestToPay initiates a collection against the payer's wallet. The call is
// not idempotent: every invocation prompts the payer's phone again under a new
// reference id.
func (m *momo) RequestToPay(ctx context.Context, form *models.PaymentForm) (*models.PaymentInitiation, error) {
	// The reference id is generated before any network call and is the sole
	// correlation key for later status polls. It is not a security credential.
	referenceID := uuid.NewString()

	token, err := m.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("requestToPay: %w", err)
	}

	b, err := json.Marshal(requestToPayReq{
		Amount:     form.Amount.String(),
		Currency:   currencyGHS,
		ExternalID: strconv.FormatInt(time.Now().UnixMilli(), 10),
		Payer: party{
			PartyIDType: "MSISDN",
			PartyID:     form.PhoneNumber,
		},
		PayerMessage: payerMessage,
		PayeeNote:    payeeNote,
	})
	if err != nil {
		return nil, fmt.Errorf("requestToPay: json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/collection/v1_0/requesttopay", bytes.NewBuffer(b))
	if err != nil {
		return nil, fmt.Errorf("requestToPay: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Reference-Id", referenceID)
	req.Header.Set("X-Target-Environment", m.targetEnv)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", m.subscriptionKey)

	resp, err := m.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requestToPay: hc.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("requestToPay: resp.StatusCode: 401: %w", status.ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rbody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("requestToPay: resp.StatusCode: %d, resp.Body: %s", resp.StatusCode, rbody)
	}

	return &models.PaymentInitiation{
		ReferenceID: referenceID,
		Status:      models.PaymentPending,
		Message:     fmt.Sprintf("Payment request sent to MTN Mobile Money number %s", utils.FormatPhoneNumber(form.PhoneNumber)),
	}, nil
}

// CheckStatus queries the requesttopay resource by reference id. SUCCESSFUL
// and FAILED are terminal; any other provider status maps to PENDING.
func (m *momo) CheckStatus(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error) {
	token, err := m.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkStatus: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/collection/v1_0/requesttopay/"+referenceID, nil)
	if err != nil {
		return nil, fmt.Errorf("checkStatus: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Target-Environment", m.targetEnv)
	req.Header.Set("Ocp-Apim-Subscription-Key", m.subscriptionKey)

	resp, err := m.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkStatus: hc.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("checkStatus: resp.StatusCode: 401: %w", status.ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rbody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("checkStatus: resp.StatusCode: %d, resp.Body: %s", resp.StatusCode, rbody)
	}

	var reply struct {
		Amount                 string `json:"amount"`
		Currency               string `json:"currency"`
		Status                 string `json:"status"`
		Reason                 string `json:"reason"`
		FinancialTransactionID string `json:"financialTransactionId"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("checkStatus: json.Decode: %w", err)
	}

	return &models.PaymentStatusResult{
		ReferenceID:            referenceID,
		Status:                 mapProviderStatus(reply.Status),
		Amount:                 reply.Amount,
		Currency:               reply.Currency,
		Reason:                 reply.Reason,
		FinancialTransactionID: reply.FinancialTransactionID,
	}, nil
}

// CreateAPIUser performs the one-time provider onboarding: create an API
// user, read it back, then mint its API key. Not part of the payment path.
func (m *momo) CreateAPIUser(ctx context.Context) (*APIUser, error) {
	referenceID := uuid.NewString()

	b, err := json.Marshal(map[string]string{"providerCallbackHost": m.callbackHost})
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1_0/apiuser", bytes.NewBuffer(b))
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("X-Reference-Id", referenceID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", m.subscriptionKey)

	resp, err := m.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: hc.Do: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("createAPIUser: resp.StatusCode: %d", resp.StatusCode)
	}

	// Read the user back to confirm creation.
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/v1_0/apiuser/"+referenceID, nil)
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", m.subscriptionKey)

	resp, err = m.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: hc.Do: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("createAPIUser: verify resp.StatusCode: %d", resp.StatusCode)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1_0/apiuser/"+referenceID+"/apikey", nil)
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", m.subscriptionKey)

	resp, err = m.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("createAPIUser: hc.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rbody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("createAPIUser: apikey resp.StatusCode: %d, resp.Body: %s", resp.StatusCode, rbody)
	}

	var reply struct {
		APIKey string `json:"apiKey"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("createAPIUser: json.Decode: %w", err)
	}

	return &APIUser{UserID: referenceID, APIKey: reply.APIKey}, nil
}

func mapProviderStatus(s string) models.PaymentStatus {
	switch s {
	case "SUCCESSFUL":
		return models.PaymentSuccessful
	case "FAILED":
		return models.PaymentFailed
	default:
		return models.PaymentPending
	}
}
