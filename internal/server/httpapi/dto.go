package httpapi

import "github.com/dmitrijs2005/flashnest/internal/server/models"

// Password limits are in characters; a multi-byte password that passes
// them can still exceed bcrypt's byte limit and is rejected by the service.

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required,max=72"`
}

type updateUserRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"max=72"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Active  bool   `json:"active"`
	Premium bool   `json:"premium"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Active: u.Active, Premium: u.Premium}
}

// Required fields are pointers so that a missing field is told apart from
// its zero value; empty strings and zero numbers are accepted.

type cardPayload struct {
	ID             *int64  `json:"id" binding:"required"`
	Question       *string `json:"question" binding:"required"`
	Answer         *string `json:"answer" binding:"required"`
	VoiceAddress   string  `json:"voice_address"`
	PictureAddress string  `json:"picture_address"`
}

type setPayload struct {
	ID           *int64        `json:"id" binding:"required"`
	Name         *string       `json:"name" binding:"required"`
	Type         *string       `json:"type" binding:"required"`
	MaxQuestion  *int          `json:"max_question" binding:"required,min=0"`
	QuestionTime *float64      `json:"question_time" binding:"required,min=0"`
	Cards        []cardPayload `json:"cards" binding:"required,dive"`
}

func (p setPayload) model() *models.Set {
	s := &models.Set{
		ID:           *p.ID,
		Name:         *p.Name,
		Type:         *p.Type,
		MaxQuestion:  *p.MaxQuestion,
		QuestionTime: *p.QuestionTime,
		Cards:        make([]*models.Card, 0, len(p.Cards)),
	}
	for _, c := range p.Cards {
		s.Cards = append(s.Cards, &models.Card{
			ID:             *c.ID,
			Question:       *c.Question,
			Answer:         *c.Answer,
			VoiceAddress:   c.VoiceAddress,
			PictureAddress: c.PictureAddress,
		})
	}
	return s
}

type cardResponse struct {
	ID             int64  `json:"id"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	VoiceAddress   string `json:"voice_address"`
	PictureAddress string `json:"picture_address"`
}

type setResponse struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	MaxQuestion  int            `json:"max_question"`
	QuestionTime float64        `json:"question_time"`
	Cards        []cardResponse `json:"cards"`
}

func newCardResponse(c *models.Card) cardResponse {
	return cardResponse{
		ID:             c.ID,
		Question:       c.Question,
		Answer:         c.Answer,
		VoiceAddress:   c.VoiceAddress,
		PictureAddress: c.PictureAddress,
	}
}

func newSetResponse(s *models.Set) setResponse {
	out := setResponse{
		ID:           s.ID,
		Name:         s.Name,
		Type:         s.Type,
		MaxQuestion:  s.MaxQuestion,
		QuestionTime: s.QuestionTime,
		Cards:        make([]cardResponse, 0, len(s.Cards)),
	}
	for _, c := range s.Cards {
		out.Cards = append(out.Cards, newCardResponse(c))
	}
	return out
}

type listQuery struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"min=0"`
}

type uploadRequest struct {
	Kind string `json:"kind" binding:"required,oneof=voice picture"`
}

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type downloadResponse struct {
	URL string `json:"url"`
}
