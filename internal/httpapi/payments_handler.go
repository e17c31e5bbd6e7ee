package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/quantnexusai/ai-groceries/internal/payments"
)

// webhookBodyLimit caps inbound webhook payloads.
const webhookBodyLimit = 1 << 20

type PaymentsHandler struct {
	client   *payments.Client
	receiver *payments.Receiver
	logger   *log.Logger
}

func NewPaymentsHandler(client *payments.Client, receiver *payments.Receiver, logger *log.Logger) *PaymentsHandler {
	return &PaymentsHandler{client: client, receiver: receiver, logger: logger}
}

type createSessionRequest struct {
	Items []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
	PlatformFee float64 `json:"platformFee,omitempty"`
	SuccessURL  string  `json:"successUrl,omitempty"`
	CancelURL   string  `json:"cancelUrl,omitempty"`
}

// CreateSession accepts raw {name, price, quantity} line items and
// returns the provider's hosted checkout URL.
func (h *PaymentsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusBadRequest, "payments are not configured")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "no items provided for checkout")
		return
	}

	sreq := payments.SessionRequest{
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	}
	for _, it := range req.Items {
		sreq.Lines = append(sreq.Lines, payments.SessionLine{
			Name:       it.Name,
			UnitAmount: payments.ToCents(it.Price),
			Quantity:   it.Quantity,
		})
	}
	if req.PlatformFee > 0 {
		sreq.Lines = append(sreq.Lines, payments.SessionLine{
			Name:       "Delivery & Platform Fee",
			UnitAmount: payments.ToCents(req.PlatformFee),
			Quantity:   1,
		})
	}

	sess, err := h.client.CreateSession(r.Context(), sreq)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			writeError(w, http.StatusBadRequest, "payments are not configured")
			return
		}
		h.logger.Printf("create checkout session: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": sess.URL})
}

// Webhook authenticates and processes one provider event per
// invocation. Authentication failures always produce an explicit
// error response, never a silent 200.
func (h *PaymentsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	err = h.receiver.Process(r.Context(), body, r.Header.Get(payments.SignatureHeader))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, payments.ErrWebhookNotConfigured):
		writeError(w, http.StatusBadRequest, "webhook is not configured")
	case errors.Is(err, payments.ErrMissingSignature):
		writeError(w, http.StatusBadRequest, "missing signature header")
	case errors.Is(err, payments.ErrBadSignature):
		writeError(w, http.StatusBadRequest, "signature verification failed")
	default:
		h.logger.Printf("webhook processing: %v", err)
		writeError(w, http.StatusInternalServerError, "webhook handler failed")
	}
}
