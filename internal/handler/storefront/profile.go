package storefront

import (
	"errors"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// ProfileHandler handles the account profile page, password changes, and
// session management
type ProfileHandler struct {
	userService service.UserService
	renderer    *handler.Renderer
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService service.UserService, renderer *handler.Renderer) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		renderer:    renderer,
	}
}

// Show handles GET /account
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "", "")
}

func (h *ProfileHandler) renderPage(w http.ResponseWriter, r *http.Request, successMsg, errorMsg string) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login?return_to=/account", http.StatusSeeOther)
		return
	}

	data := BaseTemplateData(r)
	if successMsg != "" {
		data["Success"] = successMsg
	}
	if errorMsg != "" {
		data["Error"] = errorMsg
	}

	if sessions, err := h.userService.ListSessions(ctx, user.ID); err == nil {
		data["Sessions"] = sessions
	}

	h.renderer.RenderHTTP(w, "storefront/account", data)
}

// UpdateProfile handles POST /account/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, "", "Invalid form data")
		return
	}

	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	if firstName == "" && lastName == "" {
		h.renderPage(w, r, "", "Please fill in your name")
		return
	}

	if err := h.userService.UpdateProfile(ctx, user.ID, firstName, lastName); err != nil {
		h.renderPage(w, r, "", domain.ErrorMessage(err))
		return
	}

	h.renderPage(w, r, "Profile updated", "")
}

// ChangePassword handles POST /account/password
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, "", "Invalid form data")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")

	if err := h.userService.ChangePassword(ctx, user.ID, current, next); err != nil {
		h.renderPage(w, r, "", domain.ErrorMessage(err))
		return
	}

	h.renderPage(w, r, "Password changed", "")
}

// RevokeSession handles POST /account/sessions/{id}/revoke
func (h *ProfileHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sessionID := parseID(r.PathValue("id"))
	if sessionID == 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.userService.RevokeSession(ctx, user.ID, sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.NotFound(w, r)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/account", http.StatusSeeOther)
}
