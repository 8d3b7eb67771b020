package subscription

import "time"

type CreateOrderRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

type PaymentCallbackRequest struct {
	OrderReference string `json:"order_reference" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
	Status         string `json:"status" binding:"required,oneof=paid failed"`
}

type SubscriptionResponse struct {
	ID             string `json:"id"`
	PlanID         string `json:"plan_id"`
	Status         string `json:"status"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	OrderReference string `json:"order_reference"`
	CreatedAt      string `json:"created_at"`
}

func mapToResponse(s Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:             s.ID,
		PlanID:         s.PlanID,
		Status:         s.Status,
		OrderReference: s.OrderReference,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
	if s.StartDate != nil {
		resp.StartDate = s.StartDate.Format(time.RFC3339)
	}
	if s.EndDate != nil {
		resp.EndDate = s.EndDate.Format(time.RFC3339)
	}
	return resp
}
