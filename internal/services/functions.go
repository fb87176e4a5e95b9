package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Server-side function names the platform exposes. Callers invoke them by
// name; the functions own their retry/compensation logic.
const (
	FnApprovalWorkflow = "approval-workflow"
	FnCreateUser       = "create-user"
	FnResetPassword    = "reset-password"
	FnExchangeRates    = "exchange-rates"
	FnReceiptExtract   = "receipt-extract"
	FnPolicyExtract    = "policy-extract"
	FnBootstrapToken   = "bootstrap-token"
	FnSignIn           = "sign-in"
)

const (
	// DefaultInvokeTimeout bounds ordinary function calls such as
	// notification emails after a report transition.
	DefaultInvokeTimeout = 10 * time.Second
	// ExtractInvokeTimeout is the longer window allowed for OCR extraction.
	ExtractInvokeTimeout = 25 * time.Second

	signInRetries     = 2
	signInBackoffStep = 2 * time.Second
)

// FunctionsClient invokes named server-side functions over HTTP.
type FunctionsClient struct {
	baseURL string
	token   string
	client  *http.Client
}

var functionsInstance *FunctionsClient

func InitializeFunctions(baseURL, token string) {
	functionsInstance = &FunctionsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{},
	}
	log.Infof("Functions client initialized for %s", baseURL)
}

func GetFunctionsClient() *FunctionsClient {
	return functionsInstance
}

// Invoke calls a named function with the default timeout.
func (f *FunctionsClient) Invoke(ctx context.Context, name string, body interface{}) (json.RawMessage, error) {
	return f.InvokeWithTimeout(ctx, name, body, DefaultInvokeTimeout)
}

// InvokeWithTimeout calls a named function with an explicit deadline.
func (f *FunctionsClient) InvokeWithTimeout(ctx context.Context, name string, body interface{}, timeout time.Duration) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/functions/v1/"+name, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warnf("[FUNC] %s is taking long, the function may be cold-starting", name)
		}
		return nil, fmt.Errorf("function %s failed: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("function %s: failed to read response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("function %s returned status %d", name, resp.StatusCode)
	}
	return data, nil
}

// SignIn exchanges credentials for a session. Transient failures are retried
// up to two extra times with linear backoff; everything else is terminal.
func (f *FunctionsClient) SignIn(ctx context.Context, email, password string) (json.RawMessage, error) {
	body := map[string]string{"email": email, "password": password}

	var lastErr error
	for attempt := 0; attempt <= signInRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * signInBackoffStep
			log.Warnf("[FUNC] sign-in attempt %d failed, retrying in %s (service may be cold-starting)", attempt, wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, err := f.InvokeWithTimeout(ctx, FnSignIn, body, DefaultInvokeTimeout)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !isTransient(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// isTransient matches the network/timeout signatures worth a retry.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "EOF")
}
