package model

import "slices"

// Closed enumerations. Every enum is a distinct string type whose Valid
// method reports membership; the validation layer rejects anything else
// through the "enum" tag, so invalid members never reach the store.

// EventCategory classifies an event.
type EventCategory string

const (
	CategoryWedding         EventCategory = "WEDDING"
	CategoryReception       EventCategory = "RECEPTION"
	CategoryEngagementParty EventCategory = "ENGAGEMENT_PARTY"
	CategoryBirthdayParty   EventCategory = "BIRTHDAY_PARTY"
	CategoryAnniversary     EventCategory = "ANNIVERSARY"
	CategoryBabyShower      EventCategory = "BABY_SHOWER"
	CategoryBridalShower    EventCategory = "BRIDAL_SHOWER"
	CategoryGraduation      EventCategory = "GRADUATION"
	CategoryHolidayParty    EventCategory = "HOLIDAY_PARTY"
	CategoryCorporateEvent  EventCategory = "CORPORATE_EVENT"
	CategoryBusinessMeeting EventCategory = "BUSINESS_MEETING"
	CategoryConference      EventCategory = "CONFERENCE"
	CategorySeminar         EventCategory = "SEMINAR"
	CategoryWorkshop        EventCategory = "WORKSHOP"
	CategoryNetworking      EventCategory = "NETWORKING"
	CategoryProductLaunch   EventCategory = "PRODUCT_LAUNCH"
	CategoryTeamBuilding    EventCategory = "TEAM_BUILDING"
	CategoryCompanyRetreat  EventCategory = "COMPANY_RETREAT"
	CategoryBoardMeeting    EventCategory = "BOARD_MEETING"
	CategoryTrainingSession EventCategory = "TRAINING_SESSION"
	CategoryReunion         EventCategory = "REUNION"
	CategoryOther           EventCategory = "OTHER"
)

// EventCategories lists every category in declaration order.
var EventCategories = []EventCategory{
	CategoryWedding, CategoryReception, CategoryEngagementParty, CategoryBirthdayParty,
	CategoryAnniversary, CategoryBabyShower, CategoryBridalShower, CategoryGraduation,
	CategoryHolidayParty, CategoryCorporateEvent, CategoryBusinessMeeting, CategoryConference,
	CategorySeminar, CategoryWorkshop, CategoryNetworking, CategoryProductLaunch,
	CategoryTeamBuilding, CategoryCompanyRetreat, CategoryBoardMeeting, CategoryTrainingSession,
	CategoryReunion, CategoryOther,
}

func (c EventCategory) Valid() bool { return slices.Contains(EventCategories, c) }

// EventStatus is the lifecycle state of an event. New events start as DRAFT.
type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventActive    EventStatus = "ACTIVE"
	EventCancelled EventStatus = "CANCELLED"
	EventCompleted EventStatus = "COMPLETED"
	EventPostponed EventStatus = "POSTPONED"
)

var EventStatuses = []EventStatus{EventDraft, EventPublished, EventActive, EventCancelled, EventCompleted, EventPostponed}

func (s EventStatus) Valid() bool { return slices.Contains(EventStatuses, s) }

// TicketType is the admission class printed on a ticket.
type TicketType string

const (
	TicketGuest   TicketType = "GUEST"
	TicketPlusOne TicketType = "PLUS_ONE"
	TicketFamily  TicketType = "FAMILY"
	TicketChild   TicketType = "CHILD"
	TicketVIP     TicketType = "VIP"
	TicketVendor  TicketType = "VENDOR"
	TicketStaff   TicketType = "STAFF"
)

var TicketTypes = []TicketType{TicketGuest, TicketPlusOne, TicketFamily, TicketChild, TicketVIP, TicketVendor, TicketStaff}

func (t TicketType) Valid() bool { return slices.Contains(TicketTypes, t) }

// TicketStatus tracks a ticket from sale to use. Check-in moves a ticket
// from ACTIVE to USED.
type TicketStatus string

const (
	TicketActive    TicketStatus = "ACTIVE"
	TicketUsed      TicketStatus = "USED"
	TicketExpired   TicketStatus = "EXPIRED"
	TicketCancelled TicketStatus = "CANCELLED"
	TicketRefunded  TicketStatus = "REFUNDED"
)

var TicketStatuses = []TicketStatus{TicketActive, TicketUsed, TicketExpired, TicketCancelled, TicketRefunded}

func (s TicketStatus) Valid() bool { return slices.Contains(TicketStatuses, s) }

// RSVPStatus is a guest's reply to an invitation.
type RSVPStatus string

const (
	RSVPPending  RSVPStatus = "PENDING"
	RSVPAccepted RSVPStatus = "ACCEPTED"
	RSVPDeclined RSVPStatus = "DECLINED"
	RSVPMaybe    RSVPStatus = "MAYBE"
)

var RSVPStatuses = []RSVPStatus{RSVPPending, RSVPAccepted, RSVPDeclined, RSVPMaybe}

func (s RSVPStatus) Valid() bool { return slices.Contains(RSVPStatuses, s) }

type VendorStatus string

const (
	VendorPending   VendorStatus = "PENDING"
	VendorConfirmed VendorStatus = "CONFIRMED"
	VendorCancelled VendorStatus = "CANCELLED"
	VendorCompleted VendorStatus = "COMPLETED"
)

var VendorStatuses = []VendorStatus{VendorPending, VendorConfirmed, VendorCancelled, VendorCompleted}

func (s VendorStatus) Valid() bool { return slices.Contains(VendorStatuses, s) }

type VendorPaymentStatus string

const (
	PaymentPending  VendorPaymentStatus = "PENDING"
	PaymentPartial  VendorPaymentStatus = "PARTIAL"
	PaymentPaid     VendorPaymentStatus = "PAID"
	PaymentOverdue  VendorPaymentStatus = "OVERDUE"
	PaymentRefunded VendorPaymentStatus = "REFUNDED"
)

var VendorPaymentStatuses = []VendorPaymentStatus{PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue, PaymentRefunded}

func (s VendorPaymentStatus) Valid() bool { return slices.Contains(VendorPaymentStatuses, s) }
