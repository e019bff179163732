package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalAcceptsStringAndNumber(t *testing.T) {
	var fromString ID
	require.NoError(t, json.Unmarshal([]byte(`"abc-123"`), &fromString))
	assert.Equal(t, ID("abc-123"), fromString)

	var fromNumber ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))
	assert.Equal(t, ID("42"), fromNumber)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &bad))
}

func TestID_MarshalRoundTripsNumbers(t *testing.T) {
	out, err := json.Marshal(ID("42"))
	require.NoError(t, err)
	assert.Equal(t, `42`, string(out))

	out, err = json.Marshal(ID("abc"))
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(out))
}

func TestTime_UnmarshalAcceptsNaiveTimestamps(t *testing.T) {
	// The reference backend emits zone-less ISO 8601.
	var naive Time
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T12:30:45.123456"`), &naive))
	assert.Equal(t, 2024, naive.Year())

	var rfc Time
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T12:30:45Z"`), &rfc))
	assert.Equal(t, 12, rfc.Hour())

	var bad Time
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))
}

func TestConversation_DecodesNullTitleAndMissingMessages(t *testing.T) {
	var conv Conversation
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "title": null}`), &conv))

	assert.Equal(t, ID("3"), conv.ID)
	assert.Nil(t, conv.Title)
	assert.Empty(t, conv.Messages)
	assert.Equal(t, "(untitled)", conv.DisplayTitle())
}

func TestConversation_SummaryDropsMessages(t *testing.T) {
	title := "t"
	conv := Conversation{
		ID:       "1",
		Title:    &title,
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}

	summary := conv.Summary()
	assert.Empty(t, summary.Messages)
	assert.Equal(t, conv.ID, summary.ID)
	assert.Len(t, conv.Messages, 1, "original untouched")
}
