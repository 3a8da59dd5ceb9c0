// internal/domain/entity/booking.go
package entity

import (
	"fmt"
	"strings"
)

// BookingCreate is the payload for a new hotel booking.
// Pointer fields let the handler tell a missing field from a zero value.
type BookingCreate struct {
	Hotel                       *string  `json:"hotel"`
	IsCanceled                  *int64   `json:"is_canceled"`
	LeadTime                    *int64   `json:"lead_time"`
	ArrivalDateYear             *int64   `json:"arrival_date_year"`
	ArrivalDateMonth            *string  `json:"arrival_date_month"`
	ArrivalDateWeekNumber       *int64   `json:"arrival_date_week_number"`
	ArrivalDateDayOfMonth       *int64   `json:"arrival_date_day_of_month"`
	StaysInWeekendNights        *int64   `json:"stays_in_weekend_nights"`
	StaysInWeekNights           *int64   `json:"stays_in_week_nights"`
	Adults                      *int64   `json:"adults"`
	Children                    *float64 `json:"children"`
	Babies                      *int64   `json:"babies"`
	Meal                        *string  `json:"meal"`
	Country                     *string  `json:"country"`
	MarketSegment               *string  `json:"market_segment"`
	DistributionChannel         *string  `json:"distribution_channel"`
	IsRepeatedGuest             *int64   `json:"is_repeated_guest"`
	PreviousCancellations       *int64   `json:"previous_cancellations"`
	PreviousBookingsNotCanceled *int64   `json:"previous_bookings_not_canceled"`
	ReservedRoomType            *string  `json:"reserved_room_type"`
	AssignedRoomType            *string  `json:"assigned_room_type"`
	BookingChanges              *int64   `json:"booking_changes"`
	DepositType                 *string  `json:"deposit_type"`
	Agent                       *string  `json:"agent"`
	Company                     *string  `json:"company"`
	DaysInWaitingList           *int64   `json:"days_in_waiting_list"`
	CustomerType                *string  `json:"customer_type"`
	ADR                         *float64 `json:"adr"`
	RequiredCarParkingSpaces    *int64   `json:"required_car_parking_spaces"`
	TotalOfSpecialRequests      *int64   `json:"total_of_special_requests"`
	ReservationStatus           *string  `json:"reservation_status"`
	ReservationStatusDate       *string  `json:"reservation_status_date"`
}

// BookingUpdate is a partial booking; nil fields are left unchanged.
type BookingUpdate BookingCreate

// bookingField is one column of the booking schema.
type bookingField struct {
	name     string
	value    any
	required bool
}

func (b *BookingCreate) columns() []bookingField {
	return []bookingField{
		{"hotel", b.Hotel, true},
		{"is_canceled", b.IsCanceled, true},
		{"lead_time", b.LeadTime, true},
		{"arrival_date_year", b.ArrivalDateYear, true},
		{"arrival_date_month", b.ArrivalDateMonth, true},
		{"arrival_date_week_number", b.ArrivalDateWeekNumber, true},
		{"arrival_date_day_of_month", b.ArrivalDateDayOfMonth, true},
		{"stays_in_weekend_nights", b.StaysInWeekendNights, true},
		{"stays_in_week_nights", b.StaysInWeekNights, true},
		{"adults", b.Adults, true},
		{"children", b.Children, false},
		{"babies", b.Babies, true},
		{"meal", b.Meal, true},
		{"country", b.Country, false},
		{"market_segment", b.MarketSegment, true},
		{"distribution_channel", b.DistributionChannel, true},
		{"is_repeated_guest", b.IsRepeatedGuest, true},
		{"previous_cancellations", b.PreviousCancellations, true},
		{"previous_bookings_not_canceled", b.PreviousBookingsNotCanceled, true},
		{"reserved_room_type", b.ReservedRoomType, true},
		{"assigned_room_type", b.AssignedRoomType, true},
		{"booking_changes", b.BookingChanges, true},
		{"deposit_type", b.DepositType, true},
		{"agent", b.Agent, false},
		{"company", b.Company, false},
		{"days_in_waiting_list", b.DaysInWaitingList, true},
		{"customer_type", b.CustomerType, true},
		{"adr", b.ADR, true},
		{"required_car_parking_spaces", b.RequiredCarParkingSpaces, true},
		{"total_of_special_requests", b.TotalOfSpecialRequests, true},
		{"reservation_status", b.ReservationStatus, true},
		{"reservation_status_date", b.ReservationStatusDate, true},
	}
}

// MissingFieldsError lists required booking fields absent from a payload.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Validate reports every required field that is missing.
func (b *BookingCreate) Validate() error {
	var missing []string
	for _, c := range b.columns() {
		if c.required && isNilPointer(c.value) {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// ToRecord converts the payload to a store record in schema order, applying
// the defaults for optional fields: children 0.0, agent and company "NULL".
func (b *BookingCreate) ToRecord() Record {
	var rec Record
	for _, c := range b.columns() {
		v := c.value
		if isNilPointer(v) {
			switch c.name {
			case "children":
				v = 0.0
			case "agent", "company":
				v = "NULL"
			default:
				v = nil
			}
		}
		rec.Set(c.name, v)
	}
	return rec
}

// ToRecord converts the partial payload to a record holding only the
// supplied, non-null fields.
func (u *BookingUpdate) ToRecord() Record {
	var rec Record
	for _, c := range (*BookingCreate)(u).columns() {
		if isNilPointer(c.value) {
			continue
		}
		rec.Set(c.name, c.value)
	}
	return rec
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *string:
		return p == nil
	case *int64:
		return p == nil
	case *float64:
		return p == nil
	default:
		return v == nil
	}
}
