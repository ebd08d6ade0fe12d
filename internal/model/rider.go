package model

import "time"

// RideType is the discipline a session or rider focuses on
type RideType string

const (
	RideTypeShowJumping     RideType = "show_jumping"
	RideTypeDressage        RideType = "dressage"
	RideTypeGeneralTraining RideType = "general_training"
	RideTypeCompetition     RideType = "competition"
)

// IsValid reports whether r is a known ride type
func (r RideType) IsValid() bool {
	switch r {
	case RideTypeShowJumping, RideTypeDressage, RideTypeGeneralTraining, RideTypeCompetition:
		return true
	}
	return false
}

// Rider is a rider's profile
type Rider struct {
	ID                   string     `json:"id" bson:"_id"`
	Name                 string     `json:"name" bson:"name"`
	Email                string     `json:"email" bson:"email"`
	ExperienceLevel      string     `json:"experience_level" bson:"experience_level"`
	PreferredDisciplines []RideType `json:"preferred_disciplines" bson:"preferred_disciplines"`
	CreatedAt            time.Time  `json:"created_at" bson:"created_at"`
}

// CreateRiderRequest represents a request to create a rider profile
type CreateRiderRequest struct {
	Name                 string     `json:"name" validate:"required,max=100"`
	Email                string     `json:"email" validate:"required,email"`
	ExperienceLevel      string     `json:"experience_level" validate:"required,oneof=Beginner Intermediate Advanced Professional"`
	PreferredDisciplines []RideType `json:"preferred_disciplines" validate:"max=4,dive,oneof=show_jumping dressage general_training competition"`
}

// Validate checks if the create request is valid
func (r *CreateRiderRequest) Validate() []FieldError {
	return validateStruct(r)
}
