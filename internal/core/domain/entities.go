package domain

// Role represents user role in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// ValidRole checks if a role string is known
func ValidRole(r string) bool {
	return r == string(RoleAdmin) || r == string(RoleStaff)
}

// Status represents the approval lifecycle of an alumni registration
type Status string

const (
	StatusPendingReview   Status = "pending_review"
	StatusApproved        Status = "approved"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusRejected        Status = "rejected"
)

var statusLabels = map[Status]string{
	StatusPendingReview:   "รอตรวจสอบ",
	StatusApproved:        "อนุมัติแล้ว",
	StatusAwaitingPayment: "รอชำระเงิน",
	StatusRejected:        "ไม่อนุมัติ",
}

// ValidStatus checks if a status string is known
func ValidStatus(s string) bool {
	_, ok := statusLabels[Status(s)]
	return ok
}

// Label returns the Thai display label for a status
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Position represents an organizational role in the alumni association
type Position string

const (
	PositionOrdinaryMember  Position = "ordinary_member"
	PositionPresident       Position = "president"
	PositionVicePresident   Position = "vice_president"
	PositionTreasurer       Position = "treasurer"
	PositionRegistrar       Position = "registrar"
	PositionPublicRelations Position = "public_relations"
)

// positionSlots maps each position to its maximum concurrent holders.
// 0 means unlimited (ordinary members).
var positionSlots = map[Position]int{
	PositionOrdinaryMember:  0,
	PositionPresident:       1,
	PositionVicePresident:   4,
	PositionTreasurer:       1,
	PositionRegistrar:       1,
	PositionPublicRelations: 1,
}

var positionLabels = map[Position]string{
	PositionOrdinaryMember:  "สมาชิกสามัญ",
	PositionPresident:       "นายกสมาคม",
	PositionVicePresident:   "อุปนายก",
	PositionTreasurer:       "เหรัญญิก",
	PositionRegistrar:       "นายทะเบียน",
	PositionPublicRelations: "ประชาสัมพันธ์",
}

// ValidPosition checks if a position string is known
func ValidPosition(p string) bool {
	_, ok := positionSlots[Position(p)]
	return ok
}

// MaxHolders returns the slot capacity for a position (0 = unlimited)
func (p Position) MaxHolders() int {
	return positionSlots[p]
}

// Label returns the Thai display label for a position
func (p Position) Label() string {
	if label, ok := positionLabels[p]; ok {
		return label
	}
	return string(p)
}

// ShippingStatus represents the delivery-pipeline state, independent of the
// approval status. Meaningful only for approved, mail-delivery registrants.
type ShippingStatus string

const (
	ShippingNotApplicable    ShippingStatus = "not_applicable"
	ShippingAwaitingShipment ShippingStatus = "awaiting_shipment"
	ShippingInTransit        ShippingStatus = "in_transit"
	ShippingDelivered        ShippingStatus = "delivered"
)

var shippingLabels = map[ShippingStatus]string{
	ShippingNotApplicable:    "ไม่ต้องจัดส่ง",
	ShippingAwaitingShipment: "รอจัดส่ง",
	ShippingInTransit:        "กำลังจัดส่ง",
	ShippingDelivered:        "จัดส่งแล้ว",
}

// ValidShippingStatus checks if a shipping status string is known
func ValidShippingStatus(s string) bool {
	_, ok := shippingLabels[ShippingStatus(s)]
	return ok
}

// RequiresTracking reports whether entering this state needs a tracking number
func (s ShippingStatus) RequiresTracking() bool {
	return s == ShippingInTransit || s == ShippingDelivered
}

// Label returns the Thai display label for a shipping status
func (s ShippingStatus) Label() string {
	if label, ok := shippingLabels[s]; ok {
		return label
	}
	return string(s)
}

// DeliveryOption represents how the registrant receives membership documents
type DeliveryOption string

const (
	DeliveryPickup DeliveryOption = "pickup"
	DeliveryMail   DeliveryOption = "mail"
)

// ValidDeliveryOption checks if a delivery option string is known
func ValidDeliveryOption(s string) bool {
	return s == string(DeliveryPickup) || s == string(DeliveryMail)
}

// PaymentMethod represents how the registration fee is paid
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentInPerson     PaymentMethod = "in_person"
)

// ValidPaymentMethod checks if a payment method string is known
func ValidPaymentMethod(s string) bool {
	return s == string(PaymentBankTransfer) || s == string(PaymentInPerson)
}

// DefaultStatus returns the status a new registration starts in:
// bank transfers await slip review, walk-in payments await the cashier.
func DefaultStatus(pm PaymentMethod) Status {
	if pm == PaymentInPerson {
		return StatusAwaitingPayment
	}
	return StatusPendingReview
}

// Notification types emitted by the domain services
const (
	NotifyNewRegistration = "new_registration"
	NotifyPaymentUploaded = "payment_uploaded"
	NotifyStatusChange    = "status_change"
	NotifyPositionChange  = "position_change"
	NotifyShippingChange  = "shipping_change"
)

// Notification priorities
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)
