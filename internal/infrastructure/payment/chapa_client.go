package payment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"medcenter-booking/config"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 1 << 20

type chapaClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewChapaClient(cfg config.PaymentConfig, log *logrus.Logger) Gateway {
	return &chapaClient{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type chapaCustomization struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type chapaInitializeBody struct {
	Amount        string              `json:"amount"`
	Currency      string              `json:"currency"`
	Email         string              `json:"email"`
	FirstName     string              `json:"first_name"`
	LastName      string              `json:"last_name"`
	PhoneNumber   string              `json:"phone_number,omitempty"`
	TxRef         string              `json:"tx_ref"`
	CallbackURL   string              `json:"callback_url,omitempty"`
	ReturnURL     string              `json:"return_url,omitempty"`
	Customization *chapaCustomization `json:"customization,omitempty"`
}

type chapaEnvelope struct {
	Message json.RawMessage `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
}

type chapaCheckoutData struct {
	CheckoutURL string `json:"checkout_url"`
}

type chapaVerifyData struct {
	Status string `json:"status"`
	TxRef  string `json:"tx_ref"`
}

func (c *chapaClient) Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResult, error) {
	body := chapaInitializeBody{
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		Email:       req.Payer.Email,
		FirstName:   req.Payer.FirstName,
		LastName:    req.Payer.LastName,
		PhoneNumber: req.Payer.Phone,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
	}
	if req.Title != "" || req.Description != "" {
		body.Customization = &chapaCustomization{Title: req.Title, Description: req.Description}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &GatewayError{Op: "initialize", Message: "cannot encode request", Err: err}
	}

	envelope, err := c.do(ctx, "initialize", http.MethodPost, c.baseURL+"/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	var data chapaCheckoutData
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.CheckoutURL == "" {
		return nil, &GatewayError{Op: "initialize", StatusCode: http.StatusOK, Message: "response has no checkout_url", Err: err}
	}

	c.log.WithField("tx_ref", req.TxRef).Info("Payment initialized")
	return &InitializeResult{CheckoutURL: data.CheckoutURL}, nil
}

func (c *chapaClient) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(txRef)
	envelope, err := c.do(ctx, "verify", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var data chapaVerifyData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, &GatewayError{Op: "verify", StatusCode: http.StatusOK, Message: "malformed verify payload", Err: err}
	}

	return &VerifyResult{TxRef: txRef, Status: ParseStatus(data.Status)}, nil
}

func (c *chapaClient) do(ctx context.Context, op, method, endpoint string, payload []byte) (*chapaEnvelope, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &GatewayError{Op: op, Message: "cannot build request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &GatewayError{Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: "cannot read response", Err: err}
	}

	var envelope chapaEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || envelope.Status != "success" {
		return nil, &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: messageText(envelope.Message)}
	}

	return &envelope, nil
}

// messageText flattens Chapa's message field, which is either a string or a
// map of field validation errors.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unexpected response"
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return fmt.Sprintf("%s", raw)
}
