package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONContent(tt.input))
		})
	}
}

func TestResolveTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, ResolveTimeout(5*time.Second, time.Minute))
	assert.Equal(t, time.Minute, ResolveTimeout(0, time.Minute))
	assert.Equal(t, time.Minute, ResolveTimeout(-1, time.Minute))
}
