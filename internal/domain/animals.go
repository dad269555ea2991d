package domain

import "time"

// Sex пол животного
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// CareType тип передержки
type CareType string

const (
	CareTemporary CareType = "Temporary"
	CarePermanent CareType = "Permanent"
)

func (c CareType) Valid() bool { return c == CareTemporary || c == CarePermanent }

// Animal карточка животного
type Animal struct {
	ID                   int64      `json:"id" gorm:"primaryKey"`
	Name                 string     `json:"name" gorm:"size:100;not null"`
	Species              string     `json:"species" gorm:"size:50;not null;index"`
	Breed                string     `json:"breed" gorm:"size:100"`
	BirthDate            time.Time  `json:"birth_date"`
	Sex                  Sex        `json:"sex" gorm:"size:1;not null"`
	Description          string     `json:"description" gorm:"type:text"`
	ImageURL             string     `json:"image_url" gorm:"size:255"`
	AvailableForAdoption bool       `json:"available_for_adoption" gorm:"not null;default:false"`
	AvailableForFoster   bool       `json:"available_for_foster" gorm:"not null;default:false"`
	CareType             CareType   `json:"care_type" gorm:"size:20;not null;default:'Temporary'"`
	ReservationDate      *time.Time `json:"reservation_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`

	Requests []AnimalRequest `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Age возраст в полных годах на момент now
func (a Animal) Age(now time.Time) int {
	years := now.Year() - a.BirthDate.Year()
	if now.Month() < a.BirthDate.Month() ||
		(now.Month() == a.BirthDate.Month() && now.Day() < a.BirthDate.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// InFosterCare true, если временная передержка идёт прямо сейчас
func (a Animal) InFosterCare(now time.Time) bool {
	if a.CareType != CareTemporary || a.ReservationDate == nil || a.EndDate == nil {
		return false
	}
	day := truncateDay(now)
	return !day.Before(truncateDay(*a.ReservationDate)) && !day.After(truncateDay(*a.EndDate))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RequestKind вид заявки
type RequestKind string

const (
	RequestAdoption RequestKind = "adoption"
	RequestFoster   RequestKind = "foster"
)

// RequestStatus статус заявки
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestAccepted RequestStatus = "Accepted"
	RequestRefused  RequestStatus = "Refused"
)

// AnimalRequest заявка на усыновление или передержку
type AnimalRequest struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	Kind      RequestKind   `json:"kind" gorm:"size:10;not null;index"`
	AnimalID  int64         `json:"animal_id" gorm:"index;not null"`
	Animal    *Animal       `json:"animal,omitempty"`
	UserID    int64         `json:"user_id" gorm:"index;not null"`
	Status    RequestStatus `json:"status" gorm:"size:20;not null;default:'Pending'"`
	Message   string        `json:"message" gorm:"type:text"`
	CareType  CareType      `json:"care_type,omitempty" gorm:"size:20"`
	CreatedAt time.Time     `json:"created_at"`
}
