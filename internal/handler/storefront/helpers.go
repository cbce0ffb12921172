package storefront

import (
	"net/http"
	"time"

	"github.com/atlasware/souq/internal/middleware"
)

// BaseTemplateData returns common data for all templates
func BaseTemplateData(r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"Year":      time.Now().Year(),
		"CSRFToken": middleware.GetCSRFToken(r.Context()),
	}

	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		data["User"] = user
	}

	return data
}
