package member

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalWidowed  MaritalStatus = "widowed"
	MaritalDivorced MaritalStatus = "divorced"
)

// Residence is the member's home address. Stored flat; the store is
// expected to match these fields case- and accent-insensitively.
type Residence struct {
	Country     string
	Department  string
	Province    string
	District    string
	UrbanSector string
	Address     string
}

// Member is the role-independent profile. Exactly one active Position
// owns a member at any time; ownership moves on promotion.
type Member struct {
	id             uuid.UUID
	firstNames     string
	lastNames      string
	gender         Gender
	maritalStatus  MaritalStatus
	birthDate      time.Time
	conversionDate time.Time
	email          string
	phone          string
	residence      Residence

	createdAt time.Time
	updatedAt time.Time
}

func New(
	firstNames, lastNames string,
	gender Gender,
	maritalStatus MaritalStatus,
	birthDate, conversionDate time.Time,
	email, phone string,
	residence Residence,
) Member {
	return Member{
		id:             uuid.New(),
		firstNames:     strings.TrimSpace(firstNames),
		lastNames:      strings.TrimSpace(lastNames),
		gender:         gender,
		maritalStatus:  maritalStatus,
		birthDate:      birthDate,
		conversionDate: conversionDate,
		email:          strings.TrimSpace(email),
		phone:          strings.TrimSpace(phone),
		residence:      residence,
	}
}

func Hydrate(
	id uuid.UUID,
	firstNames, lastNames string,
	gender Gender,
	maritalStatus MaritalStatus,
	birthDate, conversionDate time.Time,
	email, phone string,
	residence Residence,
	createdAt, updatedAt time.Time,
) Member {
	return Member{
		id:             id,
		firstNames:     firstNames,
		lastNames:      lastNames,
		gender:         gender,
		maritalStatus:  maritalStatus,
		birthDate:      birthDate,
		conversionDate: conversionDate,
		email:          email,
		phone:          phone,
		residence:      residence,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (m Member) ID() uuid.UUID                { return m.id }
func (m Member) FirstNames() string           { return m.firstNames }
func (m Member) LastNames() string            { return m.lastNames }
func (m Member) FullName() string             { return m.firstNames + " " + m.lastNames }
func (m Member) Gender() Gender               { return m.gender }
func (m Member) MaritalStatus() MaritalStatus { return m.maritalStatus }
func (m Member) BirthDate() time.Time         { return m.birthDate }
func (m Member) ConversionDate() time.Time    { return m.conversionDate }
func (m Member) Email() string                { return m.email }
func (m Member) Phone() string                { return m.phone }
func (m Member) Residence() Residence         { return m.residence }
func (m Member) CreatedAt() time.Time         { return m.createdAt }
func (m Member) UpdatedAt() time.Time         { return m.updatedAt }
func (m Member) IsZero() bool                 { return m.id == uuid.Nil }

// Apply overlays non-zero profile fields from the update onto the member.
func (m Member) Apply(upd ProfileUpdate) Member {
	if v := strings.TrimSpace(upd.FirstNames); v != "" {
		m.firstNames = v
	}
	if v := strings.TrimSpace(upd.LastNames); v != "" {
		m.lastNames = v
	}
	if upd.Gender != "" {
		m.gender = upd.Gender
	}
	if upd.MaritalStatus != "" {
		m.maritalStatus = upd.MaritalStatus
	}
	if !upd.BirthDate.IsZero() {
		m.birthDate = upd.BirthDate
	}
	if !upd.ConversionDate.IsZero() {
		m.conversionDate = upd.ConversionDate
	}
	if v := strings.TrimSpace(upd.Email); v != "" {
		m.email = v
	}
	if v := strings.TrimSpace(upd.Phone); v != "" {
		m.phone = v
	}
	if upd.Residence != nil {
		m.residence = *upd.Residence
	}
	return m
}

// ProfileUpdate carries the member fields an update request may touch.
type ProfileUpdate struct {
	FirstNames     string
	LastNames      string
	Gender         Gender
	MaritalStatus  MaritalStatus
	BirthDate      time.Time
	ConversionDate time.Time
	Email          string
	Phone          string
	Residence      *Residence
}
