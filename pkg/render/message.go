package render

import (
	"errors"
	"fmt"

	"github.com/marcusziade/githubcards/pkg/client"
	"github.com/marcusziade/githubcards/pkg/form"
)

// ErrorMessage turns a failed submission into text for the user
func ErrorMessage(err error, username string) string {
	switch {
	case errors.Is(err, form.ErrRequired):
		return "Please enter a GitHub username"
	case errors.Is(err, client.ErrNotFound):
		return fmt.Sprintf("User %q not found", username)
	default:
		return fmt.Sprintf("Could not look up %q: %v", username, err)
	}
}
