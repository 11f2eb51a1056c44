package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/marcusziade/githubcards/pkg/client"
	"github.com/marcusziade/githubcards/pkg/form"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"required", form.ErrRequired, "Please enter a GitHub username"},
		{"not found", fmt.Errorf("lookup %q: %w", "nobody", client.ErrNotFound), `User "nobody" not found`},
		{"upstream", errors.New("connection refused"), `Could not look up "nobody": connection refused`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, "nobody"))
		})
	}
}
