package models

import "time"

// UserType is the persona classification that drives system-prompt
// selection.
type UserType string

const (
	UserTypeStudent      UserType = "student"
	UserTypeGraduate     UserType = "graduate"
	UserTypeProfessional UserType = "professional"
	UserTypeEntrepreneur UserType = "entrepreneur"
)

// ParseUserType maps arbitrary input to a known user type, defaulting to
// student for anything unrecognized or empty.
func ParseUserType(raw string) UserType {
	switch UserType(raw) {
	case UserTypeGraduate:
		return UserTypeGraduate
	case UserTypeProfessional:
		return UserTypeProfessional
	case UserTypeEntrepreneur:
		return UserTypeEntrepreneur
	default:
		return UserTypeStudent
	}
}

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

// UserProfile holds career-guidance context for a user. At most one
// profile exists per user id.
type UserProfile struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	UserType          UserType        `json:"user_type"`
	ExperienceLevel   ExperienceLevel `json:"experience_level,omitempty"`
	IndustryInterests []string        `json:"industry_interests"`
	CareerGoals       []string        `json:"career_goals"`
	Skills            []string        `json:"skills"`
	Location          string          `json:"location,omitempty"`
	Bio               string          `json:"bio,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// UserProfileUpdate carries a partial profile update. Nil fields leave the
// stored value unchanged.
type UserProfileUpdate struct {
	FullName          *string          `json:"full_name"`
	UserType          *UserType        `json:"user_type"`
	ExperienceLevel   *ExperienceLevel `json:"experience_level"`
	IndustryInterests []string         `json:"industry_interests"`
	CareerGoals       []string         `json:"career_goals"`
	Skills            []string         `json:"skills"`
	Location          *string          `json:"location"`
	Bio               *string          `json:"bio"`
}

// Apply merges the non-nil fields of the update into the profile.
func (u UserProfileUpdate) Apply(profile *UserProfile) {
	if u.FullName != nil {
		profile.FullName = *u.FullName
	}
	if u.UserType != nil {
		profile.UserType = ParseUserType(string(*u.UserType))
	}
	if u.ExperienceLevel != nil {
		profile.ExperienceLevel = *u.ExperienceLevel
	}
	if u.IndustryInterests != nil {
		profile.IndustryInterests = u.IndustryInterests
	}
	if u.CareerGoals != nil {
		profile.CareerGoals = u.CareerGoals
	}
	if u.Skills != nil {
		profile.Skills = u.Skills
	}
	if u.Location != nil {
		profile.Location = *u.Location
	}
	if u.Bio != nil {
		profile.Bio = *u.Bio
	}
	profile.UpdatedAt = time.Now().UTC()
}
