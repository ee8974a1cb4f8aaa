package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocumentPath is where the router serves the embedded OpenAPI document.
const DocumentPath = "/openapi.yml"

// Handler serves the Swagger UI pointed at docURL.
func Handler(docURL string) http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DeepLinking(true),
	)
}
