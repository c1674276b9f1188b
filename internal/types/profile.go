package types

import (
	"time"

	"github.com/pageza/userprofile/backend/internal/models"
	"github.com/pageza/userprofile/backend/internal/validation"
)

// DateLayout is the wire format of dates in requests and responses.
const DateLayout = "2006-01-02"

// CreateProfileForm is the raw multipart form of a create-profile request.
// Absent fields stay nil.
type CreateProfileForm struct {
	FirstName   *string `form:"first_name"`
	LastName    *string `form:"last_name"`
	Gender      *string `form:"gender"`
	DateOfBirth *string `form:"date_of_birth"`
	Info        *string `form:"info"`
}

// Avatar is an uploaded image after validation.
type Avatar struct {
	Data        []byte
	ContentType string
}

// CreateProfileInput is a validated create-profile request.
type CreateProfileInput struct {
	FirstName   *string
	LastName    *string
	Gender      *models.Gender
	DateOfBirth *time.Time
	Info        *string
	Avatar      *Avatar
}

// NewCreateProfileInput validates form and the optional avatar bytes. Fields
// are checked in form order and the first failure is returned.
func NewCreateProfileInput(form CreateProfileForm, avatar []byte, now time.Time) (*CreateProfileInput, *validation.Error) {
	in := &CreateProfileInput{}

	if form.FirstName != nil {
		name, err := validation.Name("first_name", *form.FirstName)
		if err != nil {
			return nil, err
		}
		in.FirstName = &name
	}
	if form.LastName != nil {
		name, err := validation.Name("last_name", *form.LastName)
		if err != nil {
			return nil, err
		}
		in.LastName = &name
	}
	if form.Gender != nil {
		g, err := validation.Gender(*form.Gender)
		if err != nil {
			return nil, err
		}
		in.Gender = &g
	}
	if form.DateOfBirth != nil {
		d, err := validation.BirthDate(*form.DateOfBirth, now)
		if err != nil {
			return nil, err
		}
		in.DateOfBirth = &d
	}
	if form.Info != nil {
		info, err := validation.Info(*form.Info)
		if err != nil {
			return nil, err
		}
		in.Info = &info
	}
	if avatar != nil {
		ct, err := validation.Avatar(avatar)
		if err != nil {
			return nil, err
		}
		in.Avatar = &Avatar{Data: avatar, ContentType: ct}
	}

	return in, nil
}

// ProfileResponse is the outward representation of a profile. Avatar is a
// resolvable URL, never the storage key.
type ProfileResponse struct {
	ID          uint           `json:"id"`
	UserID      uint           `json:"user_id"`
	FirstName   *string        `json:"first_name"`
	LastName    *string        `json:"last_name"`
	Gender      *models.Gender `json:"gender"`
	DateOfBirth *string        `json:"date_of_birth"`
	Info        *string        `json:"info"`
	Avatar      *string        `json:"avatar"`
}

// NewProfileResponse renders p with avatarURL in place of the stored key.
func NewProfileResponse(p *models.UserProfile, avatarURL *string) *ProfileResponse {
	resp := &ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender,
		Info:      p.Info,
		Avatar:    avatarURL,
	}
	if p.DateOfBirth != nil {
		d := p.DateOfBirth.Format(DateLayout)
		resp.DateOfBirth = &d
	}
	return resp
}
