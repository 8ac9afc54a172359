package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/config"
	"github.com/readyvery/foodie-order/utils"
)

// TossPayment is the payment object returned by the confirm API. Only the
// fields kept on receipts are decoded.
type TossPayment struct {
	MID            string `json:"mId"`
	Version        string `json:"version"`
	PaymentKey     string `json:"paymentKey"`
	OrderID        string `json:"orderId"`
	OrderName      string `json:"orderName"`
	Type           string `json:"type"`
	Currency       string `json:"currency"`
	Method         string `json:"method"`
	Status         string `json:"status"`
	RequestedAt    string `json:"requestedAt"`
	ApprovedAt     string `json:"approvedAt"`
	TotalAmount    int64  `json:"totalAmount"`
	BalanceAmount  int64  `json:"balanceAmount"`
	SuppliedAmount int64  `json:"suppliedAmount"`
	Vat            int64  `json:"vat"`
	Card           *struct {
		IssuerCode string `json:"issuerCode"`
		Number     string `json:"number"`
		ApproveNo  string `json:"approveNo"`
	} `json:"card"`
	EasyPay *struct {
		Provider string `json:"provider"`
		Amount   int64  `json:"amount"`
	} `json:"easyPay"`
	Receipt *struct {
		URL string `json:"url"`
	} `json:"receipt"`
}

type tossConfirmRequest struct {
	Amount     int64  `json:"amount"`
	OrderID    string `json:"orderId"`
	PaymentKey string `json:"paymentKey"`
}

type tossErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TossService calls the Toss Payments API. One instance and its HTTP
// client are shared by all requests.
type TossService struct {
	config     config.TossConfig
	httpClient *http.Client
}

// NewTossService builds the adapter. A nil httpClient is replaced by one
// using cfg.Timeout.
func NewTossService(cfg config.TossConfig, httpClient *http.Client) *TossService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &TossService{config: cfg, httpClient: httpClient}
}

func (ts *TossService) ValidateConfig() error {
	if ts.config.SecretKey == "" {
		return fmt.Errorf("TOSS_SECRET_KEY is not set")
	}
	if ts.config.ConfirmURL == "" {
		return fmt.Errorf("TOSS_CONFIRM_URL is not set")
	}
	return nil
}

// Confirm asks Toss to approve the payment. Every failure is logged and
// reported as ErrTossPaymentSuccessFail.
func (ts *TossService) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*TossPayment, error) {
	payment, err := ts.confirm(ctx, paymentKey, orderID, amount)
	if err != nil {
		utils.ErrorLogger.WithField("order_id", orderID).Errorf("Toss payment confirm failed: %v", err)
		return nil, apperrors.ErrTossPaymentSuccessFail
	}

	utils.InfoLogger.WithField("order_id", orderID).Infof("Toss payment confirmed (method=%s, status=%s)", payment.Method, payment.Status)
	return payment, nil
}

func (ts *TossService) confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*TossPayment, error) {
	jsonData, err := json.Marshal(tossConfirmRequest{
		Amount:     amount,
		OrderID:    orderID,
		PaymentKey: paymentKey,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.config.ConfirmURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", ts.authorizationHeader())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var tossErr tossErrorResponse
		if json.Unmarshal(body, &tossErr) == nil && tossErr.Code != "" {
			return nil, fmt.Errorf("toss API error (status %d): %s %s", resp.StatusCode, tossErr.Code, tossErr.Message)
		}
		return nil, fmt.Errorf("toss API error (status %d): %s", resp.StatusCode, string(body))
	}

	var payment TossPayment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}
	return &payment, nil
}

// authorizationHeader is Basic auth with the secret key as user name and
// an empty password.
func (ts *TossService) authorizationHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(ts.config.SecretKey+":"))
}
