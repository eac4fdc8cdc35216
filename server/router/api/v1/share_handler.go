package v1

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/landingchat/landingchat/plugin/codefence"
	"github.com/landingchat/landingchat/store"
)

// markdownRenderer renders the prose parts of a shared message. Raw HTML in
// model output stays escaped.
var markdownRenderer = goldmark.New(
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

var sharePageTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="fa" dir="rtl">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:type" content="website">
{{if .ImageURL}}<meta property="og:image" content="{{.ImageURL}}">
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="{{.Title}}">
<meta name="twitter:image" content="{{.ImageURL}}">
{{end}}<style>
body { margin: 0; font-family: "IRANYekan", Tahoma, sans-serif; background: #0b0b0f; color: #e7e7ea; }
main { max-width: 960px; margin: 0 auto; padding: 2rem 1rem; }
h1 { font-size: 1.5rem; }
.prose { line-height: 1.9; }
pre { direction: ltr; text-align: left; overflow-x: auto; background: #15151c; border-radius: 12px; padding: 1rem; }
code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: .875rem; }
.filename { direction: ltr; text-align: left; color: #9a9aa5; font-size: .8rem; margin-bottom: .25rem; }
.preview { width: 100%; height: 480px; border: 1px solid #26262f; border-radius: 12px; background: #fff; }
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
{{if .PreviewHTML}}<iframe class="preview" sandbox="allow-scripts" srcdoc="{{.PreviewHTML}}" title="{{.Title}}"></iframe>
{{end}}{{range .Parts}}{{if .IsCode}}<div class="filename">{{.Filename}}</div>
<pre><code class="language-{{.Language}}">{{.Content}}</code></pre>
{{else}}<div class="prose">{{.HTML}}</div>
{{end}}{{end}}
</main>
</body>
</html>
`))

type sharePart struct {
	IsCode   bool
	Content  string
	Language string
	Filename string
	HTML     template.HTML
}

type sharePageData struct {
	Title       string
	Description string
	ImageURL    string
	PreviewHTML string
	Parts       []sharePart
}

// SharePage handles GET /share/:uid, where uid names a message. The page
// exists only when the message carries a complete code block with a
// language tag.
func (s *APIV1Service) SharePage(c echo.Context) error {
	message, chatRecord, err := s.sharedMessage(c)
	if err != nil {
		return s.respondError(c, err)
	}

	block := codefence.ExtractFirstCodeBlock(message.Content)
	if block == nil || block.Language == "" {
		return c.JSON(http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: "nothing to share"})
	}

	s.Metrics.ShareViewsTotal.Inc()

	data := sharePageData{
		Title:       chatRecord.Title,
		Description: fmt.Sprintf("%s | ساخته شده با landing.chat", chatRecord.Title),
		ImageURL:    s.shareImageURL(message.UID),
	}
	// Self-contained HTML artifacts run directly in a sandboxed frame.
	if block.Language == "html" {
		data.PreviewHTML = block.Code
	}
	for _, part := range codefence.Split(message.Content) {
		switch part.Type {
		case codefence.PartFirstCodeFence:
			data.Parts = append(data.Parts, sharePart{
				IsCode:   true,
				Content:  part.Content,
				Language: part.Language,
				Filename: part.Filename.Name + "." + part.Filename.Extension,
			})
		case codefence.PartText:
			var buf bytes.Buffer
			if err := markdownRenderer.Convert([]byte(part.Content), &buf); err != nil {
				continue
			}
			data.Parts = append(data.Parts, sharePart{HTML: template.HTML(buf.String())})
		}
	}

	var page bytes.Buffer
	if err := sharePageTemplate.Execute(&page, data); err != nil {
		return s.respondError(c, err)
	}
	return c.HTMLBlob(http.StatusOK, page.Bytes())
}

func (s *APIV1Service) sharedMessage(c echo.Context) (*store.Message, *store.Chat, error) {
	uid := c.Param("uid")
	message, err := s.Store.GetMessage(c.Request().Context(), &store.FindMessage{UID: &uid})
	if err != nil {
		return nil, nil, err
	}
	chatRecord, err := s.Store.GetChat(c.Request().Context(), &store.FindChat{ID: &message.ChatID})
	if err != nil {
		return nil, nil, err
	}
	return message, chatRecord, nil
}

func (s *APIV1Service) shareImageURL(messageUID string) string {
	base := strings.TrimSuffix(s.Profile.PublicURL, "/")
	return fmt.Sprintf("%s%s/share/%s/image", base, s.Profile.BasePath, messageUID)
}
