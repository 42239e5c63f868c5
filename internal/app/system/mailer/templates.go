// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Row is one "Label: value" line inside a section.
type Row struct {
	Label string
	Value string
}

// Section is a highlighted box of rows or paragraphs.
type Section struct {
	Heading string
	Rows    []Row
	Lines   []string
	// Bullets renders Lines as a list instead of paragraphs.
	Bullets bool
}

// PaymentBox asks the registrant to pay and links to the checkout page.
type PaymentBox struct {
	Heading    string
	Text       string
	Link       string
	ButtonText string
	Note       string
}

// Message is the content of one email. Every message kind fills a
// Message and renders it through the shared layout.
type Message struct {
	Title      string
	Subtitle   string
	Greeting   string
	Intro      []string
	Payment    *PaymentBox
	Sections   []Section
	Note       string
	ButtonText string
	ButtonURL  string
	Outro      []string
	SignOff    string
	Footer     string
}

var layout = template.Must(template.New("layout").Parse(layoutHTML))

// Render produces the HTML body for m.
func Render(m Message) (string, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	strictPolicy = bluemonday.StrictPolicy()
	blockEnd     = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|h[1-6]|li|tr)>`)
	blankRuns    = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)
	spaceRuns    = regexp.MustCompile(`[ \t]+`)
)

// PlainText derives a text/plain body from an HTML body.
func PlainText(htmlBody string) string {
	s := blockEnd.ReplaceAllString(htmlBody, "\n")
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = spaceRuns.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s) + "\n"
}

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 20px; background-color: #f3f4f6;">
<div style="font-family: Arial, sans-serif; max-width: 700px; margin: 0 auto; background-color: #ffffff; border-radius: 10px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.1);">
  <div style="background: linear-gradient(135deg, #ba82c5 0%, #6e2d79 100%); color: white; padding: 25px; text-align: center;">
    <h2 style="margin: 0; font-weight: 500; font-size: 1.8rem;">{{.Title}}</h2>
    {{- if .Subtitle}}
    <p style="margin: 10px 0 0; opacity: 0.9;">{{.Subtitle}}</p>
    {{- end}}
  </div>
  <div style="padding: 30px; line-height: 1.6; color: #333333;">
    {{- if .Greeting}}
    <p style="font-size: 16px;">{{.Greeting}}</p>
    {{- end}}
    {{- range .Intro}}
    <p style="font-size: 16px;">{{.}}</p>
    {{- end}}
    {{- with .Payment}}
    <div style="margin: 20px 0; padding: 20px; background-color: #f6e8f6; border-radius: 8px; border-left: 4px solid #ba82c5;">
      <h3 style="margin: 0 0 15px 0; font-size: 18px; color: #2d3748;">{{.Heading}}</h3>
      {{- if .Text}}
      <p style="margin: 0 0 15px 0; font-size: 16px;">{{.Text}}</p>
      {{- end}}
      <a href="{{.Link}}" style="display: inline-block; background: #6e2d79; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold; margin: 10px 0;">{{.ButtonText}}</a>
      {{- if .Note}}
      <p style="margin: 10px 0 0; font-size: 14px; color: #718096;">{{.Note}}</p>
      {{- end}}
    </div>
    {{- end}}
    {{- range .Sections}}
    <div style="background: #f6e8f6; padding: 20px; border-radius: 8px; margin: 25px 0; border: 1px solid #d1b2d4;">
      {{- if .Heading}}
      <h3 style="color: #2c3e50; margin-bottom: 15px; font-weight: 600;">{{.Heading}}</h3>
      {{- end}}
      {{- range .Rows}}
      <div style="margin: 15px 0; padding: 15px; background: #f8f9fa; border-left: 4px solid #ba82c5; border-radius: 5px;">
        <strong>{{.Label}}:</strong> {{.Value}}
      </div>
      {{- end}}
      {{- if .Bullets}}
      <ul style="padding-left: 20px; margin: 15px 0;">
        {{- range .Lines}}
        <li style="margin-bottom: 10px;">{{.}}</li>
        {{- end}}
      </ul>
      {{- else}}
      {{- range .Lines}}
      <p>{{.}}</p>
      {{- end}}
      {{- end}}
    </div>
    {{- end}}
    {{- if .Note}}
    <div style="margin: 20px 0; padding: 15px; background-color: #f6e8f6; border-radius: 8px; border-left: 4px solid #ba82c5;">
      <p style="margin: 0; font-size: 15px;"><strong>Note:</strong> {{.Note}}</p>
    </div>
    {{- end}}
    {{- range .Outro}}
    <p style="font-size: 16px;">{{.}}</p>
    {{- end}}
    {{- if .ButtonURL}}
    <div style="text-align: center; margin-top: 30px;">
      <a href="{{.ButtonURL}}" style="display: inline-block; background: #6e2d79; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold; margin: 10px 0;">{{.ButtonText}}</a>
    </div>
    {{- end}}
    {{- if .SignOff}}
    <p style="font-size: 16px; margin-top: 40px;">Best regards,<br><strong>{{.SignOff}}</strong></p>
    {{- end}}
  </div>
  <div style="text-align: center; padding: 20px; color: #777777; font-size: 14px; border-top: 1px solid #eeeeee; background: #f8f9fa;">
    {{.Footer}}
  </div>
</div>
</body>
</html>`
