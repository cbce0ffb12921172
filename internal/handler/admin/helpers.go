package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/atlasware/souq/internal/middleware"
)

// BaseTemplateData returns the fields every admin page needs. CurrentPath
// drives the sidebar's active-link highlighting.
func BaseTemplateData(r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"Year":        time.Now().Year(),
		"CurrentPath": r.URL.Path,
		"CSRFToken":   middleware.GetCSRFToken(r.Context()),
	}

	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		data["User"] = user
	}

	return data
}

// parseID parses a path segment as a positive int64, returning 0 on garbage.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

