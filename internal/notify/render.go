package notify

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

// defaultDueDate is substituted when a task has no due date. This is
// observable behavior of the rendered notification, not a cosmetic
// choice.
const defaultDueDate = "Not specified"

// dispatchTimeLayout formats the dispatch timestamp embedded in the
// notification body.
const dispatchTimeLayout = "1/2/2006, 3:04:05 PM"

const textTemplateSrc = `Hi there!
Your task (“{{.Title}}”) was {{.Action}} on {{.When}}.
Due date: {{.DueDate}}
`

const htmlTemplateSrc = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8"/>
    <style>
      body { font-family: Arial, sans-serif; color: #333; }
      .container { max-width: 600px; margin: auto; padding: 20px; }
      .header { font-size: 24px; margin-bottom: 10px; }
      .card { border: 1px solid #ddd; border-radius: 4px; padding: 15px; }
      .btn { display: inline-block; margin-top: 15px; padding: 10px 20px;
             background: #007bff; color: #fff; text-decoration: none;
             border-radius: 4px; }
      .footer { font-size: 12px; color: #999; margin-top: 20px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">Task {{.Action}}</div>
      <div class="card">
        <p><strong>Title:</strong> {{.Title}}</p>
        <p><strong>Due date:</strong> {{.DueDate}}</p>
        <p><strong>When:</strong> {{.When}}</p>
      </div>
      <a class="btn" href="{{.Link}}">View Task</a>
      <div class="footer">
        You&#39;re receiving this because you&#39;ve signed up for Taskdeck notifications.
      </div>
    </div>
  </body>
</html>`

// renderData is the template context for one notification.
type renderData struct {
	Action  string
	Title   string
	DueDate string
	When    string
	Link    string
}

// Notification is one rendered notification, ready for delivery.
type Notification struct {
	Subject  string
	TextBody string
	HTMLBody string
}

// Renderer builds notification messages from resolved event data. It is
// safe for concurrent use.
type Renderer struct {
	baseURL string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

// NewRenderer creates a Renderer whose deep links are rooted at baseURL
// (e.g. "https://taskdeck.app").
func NewRenderer(baseURL string) (*Renderer, error) {
	text, err := texttemplate.New("notification_text").Parse(textTemplateSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}

	html, err := htmltemplate.New("notification_html").Parse(htmlTemplateSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}

	return &Renderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		text:    text,
		html:    html,
	}, nil
}

// Render builds the subject and both body variants for one event.
//
// Default-substitution rules, both observable behavior: a blank title
// falls back to the task ID, and a blank due date falls back to
// "Not specified".
func (r *Renderer) Render(action, taskID, title, dueDate string, now time.Time) (Notification, error) {
	if title == "" {
		title = taskID
	}
	if dueDate == "" {
		dueDate = defaultDueDate
	}

	data := renderData{
		Action:  action,
		Title:   title,
		DueDate: dueDate,
		When:    now.Format(dispatchTimeLayout),
		Link:    fmt.Sprintf("%s/tasks/%s", r.baseURL, taskID),
	}

	subject := fmt.Sprintf("🔔 Task %s: %s", action, title)

	var textBuf strings.Builder
	if err := r.text.Execute(&textBuf, data); err != nil {
		return Notification{}, fmt.Errorf("failed to render text body: %w", err)
	}

	var htmlBuf strings.Builder
	if err := r.html.Execute(&htmlBuf, data); err != nil {
		return Notification{}, fmt.Errorf("failed to render html body: %w", err)
	}

	return Notification{
		Subject:  subject,
		TextBody: textBuf.String(),
		HTMLBody: htmlBuf.String(),
	}, nil
}
