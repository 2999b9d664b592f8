package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/zuice-storefront/internal/faq"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

func matcher(t *testing.T, strategy string) faq.Matcher {
	t.Helper()
	m, err := faq.New(strategy, faq.DefaultThreshold)
	require.NoError(t, err)
	return m
}

func TestNewTranscript_OpensWithGreeting(t *testing.T) {
	tests := []struct {
		strategy string
		want     string
	}{
		{faq.StrategyFuzzy, faq.Greeting(faq.StrategyFuzzy).Text},
		{faq.StrategyKeyword, faq.Greeting(faq.StrategyKeyword).Text},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			tr := NewTranscript(tt.strategy)

			msgs := tr.Messages()
			require.Len(t, msgs, 1)
			assert.Equal(t, model.ChatFromBot, msgs[0].From)
			assert.Equal(t, tt.want, msgs[0].Text)
			assert.NotEmpty(t, msgs[0].ID)
		})
	}
}

func TestTranscript_SendRecordsBothSides(t *testing.T) {
	tr := NewTranscript(faq.StrategyKeyword)

	turn, err := tr.Send(matcher(t, faq.StrategyKeyword), "What does installation involve?")
	require.NoError(t, err)

	assert.Equal(t, faq.StrategyKeyword, turn.Strategy)
	assert.True(t, turn.Matched)
	assert.Equal(t, model.ChatFromUser, turn.Question.From)
	assert.Equal(t, model.ChatFromBot, turn.Answer.From)
	assert.NotEmpty(t, turn.Answer.Suggestions)
	assert.NotEqual(t, turn.Question.ID, turn.Answer.ID)

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, turn.Question, msgs[1])
	assert.Equal(t, turn.Answer, msgs[2])
}

func TestTranscript_StrategyPerMessage(t *testing.T) {
	tr := NewTranscript(faq.StrategyFuzzy)

	fuzzy, err := tr.Send(matcher(t, faq.StrategyFuzzy), "How long is the warranty period?")
	require.NoError(t, err)
	keyword, err := tr.Send(matcher(t, faq.StrategyKeyword), "How long is the warranty period?")
	require.NoError(t, err)

	assert.Equal(t, "Our inverters come with a 5-year comprehensive warranty.", fuzzy.Answer.Text)
	assert.NotEqual(t, fuzzy.Answer.Text, keyword.Answer.Text)
	assert.Equal(t, 5, tr.Len())
}

func TestTranscript_SendRejectsBlank(t *testing.T) {
	tr := NewTranscript(faq.StrategyFuzzy)

	_, err := tr.Send(matcher(t, faq.StrategyFuzzy), "   ")

	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 1, tr.Len())
}

func TestTranscript_UnmatchedTurn(t *testing.T) {
	tr := NewTranscript(faq.StrategyFuzzy)

	turn, err := tr.Send(matcher(t, faq.StrategyFuzzy), "zzzzzzzz")
	require.NoError(t, err)

	assert.False(t, turn.Matched)
	assert.Equal(t, faq.FallbackText, turn.Answer.Text)
}

func TestTranscript_Reset(t *testing.T) {
	tr := NewTranscript(faq.StrategyKeyword)
	_, err := tr.Send(matcher(t, faq.StrategyKeyword), "hello")
	require.NoError(t, err)

	greeting := tr.Reset()

	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, greeting, msgs[0])
	assert.Equal(t, faq.ResetGreeting().Text, greeting.Text)
}

func TestTranscript_DropsOldestBeyondLimit(t *testing.T) {
	tr := NewTranscript(faq.StrategyFuzzy)
	tr.maxMessages = 4
	m := matcher(t, faq.StrategyFuzzy)

	for _, q := range []string{"one", "two", "three"} {
		_, err := tr.Send(m, q)
		require.NoError(t, err)
	}

	msgs := tr.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "two", msgs[0].Text)
	assert.Equal(t, "three", msgs[2].Text)
}

func TestTranscript_MessagesIsACopy(t *testing.T) {
	tr := NewTranscript(faq.StrategyKeyword)

	msgs := tr.Messages()
	msgs[0].Text = "changed"
	msgs[0].Suggestions[0] = "changed"

	fresh := tr.Messages()
	assert.NotEqual(t, "changed", fresh[0].Text)
	assert.NotEqual(t, "changed", fresh[0].Suggestions[0])
}
