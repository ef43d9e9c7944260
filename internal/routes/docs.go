package routes

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/internal/config"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

const docsIndexHTML = `<!doctype html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; background: #f6f7f4; color: #132019; }
    main { max-width: 960px; margin: 0 auto; padding: 32px 20px; }
    table { width: 100%; border-collapse: collapse; background: #fff; }
    th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #d8ddd6; }
    code { font-family: ui-monospace, monospace; }
    .muted { color: #536258; }
  </style>
</head>
<body>
<main>
  <h1>{{ .Title }}</h1>
  <p class="muted">Version {{ .Version }}, loaded {{ .LoadedAt }}. Raw document: <a href="/docs/openapi.yaml">openapi.yaml</a></p>
  <table>
    <thead><tr><th>Method</th><th>Path</th><th>Summary</th></tr></thead>
    <tbody>
    {{ range .Operations }}<tr><td><code>{{ .Method }}</code></td><td><code>{{ .Path }}</code></td><td>{{ .Summary }}</td></tr>
    {{ end }}
    </tbody>
  </table>
</main>
</body>
</html>
`

type docsOperation struct {
	Method  string
	Path    string
	Summary string
}

type docsPageData struct {
	Title      string
	Version    string
	LoadedAt   string
	Operations []docsOperation
}

// openAPIDocument is the subset of the document the index page lists.
type openAPIDocument struct {
	Info struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths yaml.Node `yaml:"paths"`
}

var docsMethods = []string{"get", "post", "put", "patch", "delete"}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	pageData, err := parseOpenAPISpec(openAPISpec)
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	indexTemplate, err := template.New("docs-index").Parse(docsIndexHTML)
	if err != nil {
		return fmt.Errorf("parse docs template: %w", err)
	}

	indexHandler := func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'")

		var body bytes.Buffer
		if err := indexTemplate.Execute(&body, pageData); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render api docs")
		}
		return c.Status(fiber.StatusOK).Send(body.Bytes())
	}

	app.Get("/docs", indexHandler)
	app.Get("/docs/", indexHandler)
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Status(fiber.StatusOK).Send(openAPISpec)
	})

	return nil
}

// parseOpenAPISpec lists the operations in document order.
func parseOpenAPISpec(spec []byte) (*docsPageData, error) {
	var doc openAPIDocument
	if err := yaml.Unmarshal(spec, &doc); err != nil {
		return nil, err
	}
	if doc.Paths.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("paths must be a mapping")
	}

	data := &docsPageData{
		Title:    doc.Info.Title,
		Version:  doc.Info.Version,
		LoadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for i := 0; i+1 < len(doc.Paths.Content); i += 2 {
		path := doc.Paths.Content[i].Value
		var item map[string]yaml.Node
		if err := doc.Paths.Content[i+1].Decode(&item); err != nil {
			return nil, fmt.Errorf("path %s: %w", path, err)
		}
		for _, method := range docsMethods {
			node, ok := item[method]
			if !ok {
				continue
			}
			var op struct {
				Summary string `yaml:"summary"`
			}
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			data.Operations = append(data.Operations, docsOperation{Method: method, Path: path, Summary: op.Summary})
		}
	}
	return data, nil
}

func applyDocsBaseHeaders(c *fiber.Ctx, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("Cross-Origin-Resource-Policy", "same-origin")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}
