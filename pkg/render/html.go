// Package render draws cards, card lists and the app page, as HTML for
// the web server and as styled text for the terminal.
package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/marcusziade/githubcards/pkg/models"
)

const templates = `
{{define "card"}}<div class="github-profile">
  <img src="{{.AvatarURL}}" alt="{{.Name}}" />
  <div class="info">
    <div class="name">{{.Name}}</div>
    <div class="company">{{.Company}}</div>
  </div>
</div>{{end}}

{{define "cardlist"}}<div class="card-list">
{{- range $i, $p := .}}
<div class="card-slot" data-key="{{$i}}">{{template "card" $p}}</div>
{{- end}}
</div>{{end}}

{{define "form"}}<form method="post" action="{{.Action}}">
  <input type="text" name="username" placeholder="{{.Placeholder}}" value="{{.Value}}"{{if .Required}} required{{end}} />
  <button>Add card</button>
</form>
{{- if .Error}}
<div class="error" role="alert">{{.Error}}</div>
{{- end}}{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>{{.Title}}</title>
<style>
.github-profile { margin: 1rem; }
.github-profile img { width: 75px; }
.github-profile .info { display: inline-block; margin-left: 10px; }
.github-profile .info .name { font-size: 1.25rem; font-weight: bold; }
.error { color: #e53935; }
</style>
</head>
<body>
<div class="App">
<header class="App-header">{{.Title}}</header>
{{template "form" .Form}}
{{template "cardlist" .Profiles}}
</div>
</body>
</html>
{{end}}
`

var tmpl = template.Must(template.New("render").Parse(templates))

// FormView is what the page needs to draw the username form
type FormView struct {
	Action      string
	Placeholder string
	Value       string
	Required    bool
	Error       string
}

// PageView is the whole app page
type PageView struct {
	Title    string
	Form     FormView
	Profiles []models.Profile
}

// Card writes one profile card
func Card(w io.Writer, p models.Profile) error {
	return execute(w, "card", p)
}

// CardList writes one card per profile, in order. A nil or empty list
// writes an empty container.
func CardList(w io.Writer, profiles []models.Profile) error {
	return execute(w, "cardlist", profiles)
}

// Page writes the full HTML document
func Page(w io.Writer, view PageView) error {
	return execute(w, "page", view)
}

func execute(w io.Writer, name string, data any) error {
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
