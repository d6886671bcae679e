package domain

import "time"

type NotificationType string

const (
	NotificationRentalRequested  NotificationType = "rental_requested"
	NotificationRentalApproved   NotificationType = "rental_approved"
	NotificationRentalRejected   NotificationType = "rental_rejected"
	NotificationPaymentSubmitted NotificationType = "payment_submitted"
	NotificationPaymentVerified  NotificationType = "payment_verified"
	NotificationRentalCancelled  NotificationType = "rental_cancelled"
	NotificationRentalCompleted  NotificationType = "rental_completed"
	NotificationRentalDisputed   NotificationType = "rental_disputed"
	NotificationRentalLate       NotificationType = "rental_late_return"
)

type Notification struct {
	ID                int32            `json:"id"`
	UserID            int32            `json:"user_id"`
	Type              NotificationType `json:"type"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	LinkURL           string           `json:"link_url"`
	RelatedEntityType string           `json:"related_entity_type"`
	RelatedEntityID   int32            `json:"related_entity_id"`
	RelatedEntityUID  string           `json:"related_entity_uid"`
	IsRead            bool             `json:"is_read"`
	CreatedAt         time.Time        `json:"created_at"`
}
