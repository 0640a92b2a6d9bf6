package queryapi

import "net/http"

// openAPISpec is a hand-authored OpenAPI 3 document for §4.8's single
// route. No code-generation tool is wired for this — see the design
// notes on why swaggo/swag was not adopted despite appearing in the
// retrieved pack.
const openAPISpec = `{
  "openapi": "3.0.3",
  "info": { "title": "riksdagen-sentences query API", "version": "1.0.0" },
  "paths": {
    "/lookup": {
      "post": {
        "summary": "Look up sentences containing a word or phrase",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["token", "iso_language_code"],
                "properties": {
                  "token": { "type": "string" },
                  "iso_language_code": { "type": "string" },
                  "lexical_category_qid": { "type": "string" },
                  "limit": { "type": "integer", "default": 50 },
                  "offset": { "type": "integer", "default": 0 }
                }
              }
            }
          }
        },
        "responses": {
          "200": { "description": "Lookup envelope" },
          "422": { "description": "Validation errors alongside echoed request data" }
        }
      }
    }
  }
}`

const docsHTML = `<!DOCTYPE html>
<html>
<head><title>riksdagen-sentences API docs</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => SwaggerUIBundle({ url: '/openapi.json', dom_id: '#swagger-ui' })
</script>
</body>
</html>`

// ServeOpenAPISpec serves the static OpenAPI document at GET /openapi.json.
func ServeOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(openAPISpec))
}

// ServeDocs serves a swagger-ui page pointed at /openapi.json at GET /docs.
func ServeDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsHTML))
}
