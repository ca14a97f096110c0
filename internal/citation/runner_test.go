package citation

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunQuery_NoCredentialIsSuccessWithoutCitations(t *testing.T) {
	engine := &mockEngine{unconfigured: true}
	r := NewRunner(engine)

	res := r.RunQuery(context.Background(), "best pizza in Austin, TX")

	assert.True(t, res.Success)
	assert.False(t, res.Ambiguous)
	assert.Empty(t, res.CitedURLs)
	engine.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunQuery_CollectsSourceURLs(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"recommendations":[
			{"business":"Joe's Pizza","source_url":"https://www.yelp.com/biz/joes"},
			{"business":"Slice House","source_url":"https://www.tripadvisor.com/x"},
			{"business":"No Source Pizzeria","source_url":null}
		]}`, nil)

	r := NewRunner(engine)
	res := r.RunQuery(context.Background(), "best pizza in Austin, TX")

	require.True(t, res.Success)
	assert.Equal(t, []string{"https://www.yelp.com/biz/joes", "https://www.tripadvisor.com/x"}, res.CitedURLs)
	assert.False(t, res.Ambiguous)
}

func TestRunQuery_FencedJSONResponse(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n{\"recommendations\":[{\"business\":\"A\",\"source_url\":\"https://yelp.com/biz/a\"}]}\n```", nil)

	r := NewRunner(engine)
	res := r.RunQuery(context.Background(), "q")

	require.True(t, res.Success)
	assert.Equal(t, []string{"https://yelp.com/biz/a"}, res.CitedURLs)
}

func TestRunQuery_UnparseableResponseIsAmbiguousSuccess(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return("I'd recommend Joe's Pizza on 5th street!", nil)

	r := NewRunner(engine)
	res := r.RunQuery(context.Background(), "q")

	assert.True(t, res.Success)
	assert.True(t, res.Ambiguous)
	assert.Empty(t, res.CitedURLs)
}

func TestRunQuery_TransportErrorIsFailure(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return("", eris.New("connection refused"))

	r := NewRunner(engine)
	res := r.RunQuery(context.Background(), "q")

	assert.False(t, res.Success)
	assert.Empty(t, res.CitedURLs)
}

func TestRunQuery_EmptyRecommendationsIsSuccess(t *testing.T) {
	engine := &mockEngine{}
	engine.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"recommendations":[]}`, nil)

	r := NewRunner(engine)
	res := r.RunQuery(context.Background(), "q")

	assert.True(t, res.Success)
	assert.False(t, res.Ambiguous)
	assert.Empty(t, res.CitedURLs)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFences(tt.input))
		})
	}
}
