package service

import (
	"encoding/json"
	"fmt"

	"chillconnect/internal/models"
	"chillconnect/internal/repository"
)

// NotificationService records user-facing events. Delivery transport (push,
// email) is an external concern; the core only persists the record.
type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	return s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
}

func (s *NotificationService) NotifyBookingRequested(providerUserID, bookingID uint) {
	_ = s.Notify(providerUserID, "BOOKING_REQUESTED", "New booking request",
		fmt.Sprintf("You have a new booking request #%d", bookingID),
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyBookingConfirmed(seekerUserID, bookingID uint) {
	_ = s.Notify(seekerUserID, "BOOKING_CONFIRMED", "Booking confirmed",
		fmt.Sprintf("Booking #%d was confirmed by the provider", bookingID),
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyBookingCancelled(otherPartyUserID, bookingID uint) {
	_ = s.Notify(otherPartyUserID, "BOOKING_CANCELLED", "Booking cancelled",
		fmt.Sprintf("Booking #%d was cancelled; escrow was refunded", bookingID),
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyServiceStarted(seekerUserID, bookingID uint) {
	_ = s.Notify(seekerUserID, "SERVICE_STARTED", "Service started",
		fmt.Sprintf("Service for booking #%d is now in progress", bookingID),
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyBookingCompleted(userID, bookingID uint) {
	_ = s.Notify(userID, "BOOKING_COMPLETED", "Booking completed",
		fmt.Sprintf("Booking #%d is complete", bookingID),
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyGateLocked(userID, bookingID uint) {
	_ = s.Notify(userID, "START_GATE_LOCKED", "Service start locked",
		fmt.Sprintf("Too many failed passcode attempts on booking #%d; contact support", bookingID),
		map[string]interface{}{"booking_id": bookingID})
}

func (s *NotificationService) NotifyWorkAssigned(staffUserID, itemID uint, kind string) {
	_ = s.Notify(staffUserID, "WORK_ASSIGNED", "New work item",
		fmt.Sprintf("A %s work item was assigned to you", kind),
		map[string]interface{}{"work_item_id": itemID, "kind": kind})
}

func (s *NotificationService) NotifyVerificationDecision(userID, verificationID uint, status string) {
	_ = s.Notify(userID, "VERIFICATION_DECIDED", "Verification "+status,
		fmt.Sprintf("Your verification request #%d was %s", verificationID, status),
		map[string]interface{}{"verification_id": verificationID, "status": status})
}

func (s *NotificationService) NotifyDisputeResolved(reporterUserID, disputeID uint, tokens int64) {
	_ = s.Notify(reporterUserID, "DISPUTE_RESOLVED", "Dispute resolved",
		fmt.Sprintf("Dispute #%d was resolved", disputeID),
		map[string]interface{}{"dispute_id": disputeID, "compensation_tokens": tokens})
}

func (s *NotificationService) NotifyPaymentConfirmed(userID uint, tokens int64, reference string) {
	_ = s.Notify(userID, "PAYMENT_CONFIRMED", "Tokens credited",
		fmt.Sprintf("%d tokens were added to your wallet", tokens),
		map[string]interface{}{"tokens": tokens, "reference": reference})
}
