package hyp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcore-app/fitcore-backend/pkg/config"
	pkgerrors "github.com/fitcore-app/fitcore-backend/pkg/errors"
)

// Client talks to the HYP hosted-payment REST API. HYP publishes no Go SDK,
// so the surface is a thin JSON-over-HTTP wrapper.
type Client interface {
	CreateSession(ctx context.Context, input SessionInput) (*Session, error)
	VerifyPayment(ctx context.Context, transactionID, paymentID string) (*Verification, error)
}

// SessionInput carries everything the hosted page needs to render a charge.
type SessionInput struct {
	Amount       decimal.Decimal
	Description  string
	Installments int
	MemberName   string
	MemberEmail  string
	MemberPhone  string
	SuccessURL   string
	CancelURL    string
}

// Session is a created hosted-payment session.
type Session struct {
	TransactionID string
	RedirectURL   string
}

// Verification is the gateway's answer for a completed payment.
type Verification struct {
	Paid       bool
	ReceiptURL string
}

type httpClient struct {
	base     string
	apiKey   string
	terminal string
	http     *http.Client
}

// NewClient builds the HTTP-backed gateway client.
func NewClient(cfg config.HypConfig) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("hyp base url required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("hyp api key required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpClient{
		base:     cfg.BaseURL,
		apiKey:   cfg.APIKey,
		terminal: cfg.TerminalID,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

type createSessionRequest struct {
	Terminal     string `json:"terminal"`
	Amount       string `json:"amount"`
	Description  string `json:"description,omitempty"`
	Installments string `json:"installments"`
	ClientName   string `json:"clientName,omitempty"`
	ClientEmail  string `json:"clientEmail,omitempty"`
	ClientPhone  string `json:"clientPhone,omitempty"`
	SuccessURL   string `json:"successUrl"`
	CancelURL    string `json:"cancelUrl"`
}

type createSessionResponse struct {
	TransactionID string `json:"transactionId"`
	PaymentURL    string `json:"paymentUrl"`
}

func (c *httpClient) CreateSession(ctx context.Context, input SessionInput) (*Session, error) {
	installments := input.Installments
	if installments < 1 {
		installments = 1
	}
	// The gateway API takes the installment count as a string.
	body := createSessionRequest{
		Terminal:     c.terminal,
		Amount:       input.Amount.StringFixed(2),
		Description:  input.Description,
		Installments: strconv.Itoa(installments),
		ClientName:   input.MemberName,
		ClientEmail:  input.MemberEmail,
		ClientPhone:  input.MemberPhone,
		SuccessURL:   input.SuccessURL,
		CancelURL:    input.CancelURL,
	}
	var out createSessionResponse
	if err := c.post(ctx, "/api/v1/sessions", body, &out); err != nil {
		return nil, err
	}
	if out.TransactionID == "" || out.PaymentURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "gateway returned incomplete session")
	}
	return &Session{TransactionID: out.TransactionID, RedirectURL: out.PaymentURL}, nil
}

type verifyRequest struct {
	Terminal      string `json:"terminal"`
	TransactionID string `json:"transactionId"`
	PaymentID     string `json:"paymentId"`
}

type verifyResponse struct {
	Status     string `json:"status"`
	ReceiptURL string `json:"receiptUrl"`
}

func (c *httpClient) VerifyPayment(ctx context.Context, transactionID, paymentID string) (*Verification, error) {
	body := verifyRequest{
		Terminal:      c.terminal,
		TransactionID: transactionID,
		PaymentID:     paymentID,
	}
	var out verifyResponse
	if err := c.post(ctx, "/api/v1/verify", body, &out); err != nil {
		return nil, err
	}
	return &Verification{
		Paid:       out.Status == "paid",
		ReceiptURL: out.ReceiptURL,
	}, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "gateway request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "reading gateway response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeGateway, fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decoding gateway response")
	}
	return nil
}
