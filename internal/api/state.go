package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/punchamoorthee/gashawk/internal/domain"
)

var ErrInvalidState = errors.New("invalid frame state")

// buttonClaims carries the tokens of the buttons on the page that produced
// the post, in display order. Link buttons hold an empty token.
type buttonClaims struct {
	Buttons []string `json:"btn"`
	jwt.RegisteredClaims
}

// StateSigner issues and checks the state attached to frame post URLs.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	return &StateSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign encodes the button tokens of screen. Welcome state never expires:
// clients cache the entry frame's post URL for as long as the frame is shown.
func (s *StateSigner) Sign(screen domain.Screen) (string, error) {
	tokens := make([]string, len(screen.Actions))
	for i, a := range screen.Actions {
		if a.Kind != domain.ActionLink {
			tokens[i] = a.Token
		}
	}
	now := s.now()
	claims := buttonClaims{
		Buttons:          tokens,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
	}
	if screen.State != domain.StateWelcome && s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign frame state: %w", err)
	}
	return signed, nil
}

// Token returns the action token of the 1-based buttonIndex in raw.
func (s *StateSigner) Token(raw string, buttonIndex int) (string, error) {
	claims := &buttonClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if buttonIndex < 1 || buttonIndex > len(claims.Buttons) {
		return "", fmt.Errorf("%w: button %d out of range", ErrInvalidState, buttonIndex)
	}
	return claims.Buttons[buttonIndex-1], nil
}
