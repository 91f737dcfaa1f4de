package api

import (
	"testing"
	"time"

	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportActions = domain.Screen{State: domain.StateReport, Actions: []domain.Action{
	{Label: "View", Kind: domain.ActionLink, Target: "https://etherscan.io/address/0x"},
	{Label: "Try", Kind: domain.ActionLink, Target: "https://app.gashawk.io"},
	{Label: "Again", Kind: domain.ActionReset, Token: "reset"},
}}

func TestStateSignerRoundTrip(t *testing.T) {
	s := NewStateSigner("secret", time.Hour)
	state, err := s.Sign(reportActions)
	require.NoError(t, err)

	token, err := s.Token(state, 3)
	require.NoError(t, err)
	assert.Equal(t, "reset", token)

	token, err = s.Token(state, 1)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStateSignerRejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewStateSigner("secret", time.Minute)
	s.now = func() time.Time { return now }
	state, err := s.Sign(reportActions)
	require.NoError(t, err)

	for _, idx := range []int{0, 4, -1} {
		_, err := s.Token(state, idx)
		assert.ErrorIs(t, err, ErrInvalidState, "index %d", idx)
	}

	_, err = NewStateSigner("other", time.Minute).Token(state, 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.Token("", 1)
	assert.ErrorIs(t, err, ErrInvalidState)

	now = now.Add(2 * time.Minute)
	_, err = s.Token(state, 3)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateSignerWelcomeNeverExpires(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewStateSigner("secret", time.Hour)
	s.now = func() time.Time { return now }

	welcome := domain.Screen{State: domain.StateWelcome, Actions: []domain.Action{
		{Label: "Learn", Kind: domain.ActionPost, Token: "learn"},
		{Label: "Calculate", Kind: domain.ActionPost, Token: "calculate"},
	}}
	state, err := s.Sign(welcome)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	token, err := s.Token(state, 2)
	require.NoError(t, err)
	assert.Equal(t, "calculate", token)

	_, err = NewStateSigner("other", time.Hour).Token(state, 2)
	assert.ErrorIs(t, err, ErrInvalidState)
}
