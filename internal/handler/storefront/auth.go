package storefront

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/atlasware/souq/internal/cookie"
	"github.com/atlasware/souq/internal/domain"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/service"
)

// SignupHandler handles the signup page and form submission
type SignupHandler struct {
	userService service.UserService
	cookies     *cookie.Config
	renderer    *handler.Renderer
}

// NewSignupHandler creates a new signup handler
func NewSignupHandler(userService service.UserService, cookies *cookie.Config, renderer *handler.Renderer) *SignupHandler {
	return &SignupHandler{
		userService: userService,
		cookies:     cookies,
		renderer:    renderer,
	}
}

// ShowForm handles GET /signup - displays the signup form
func (h *SignupHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "", nil)
}

func (h *SignupHandler) renderForm(w http.ResponseWriter, r *http.Request, formError string, fieldErrors map[string]string) {
	data := BaseTemplateData(r)
	if formError != "" {
		data["Error"] = formError
	}
	if fieldErrors != nil {
		data["FieldErrors"] = fieldErrors
	}
	h.renderer.RenderHTTP(w, "storefront/signup", data)
}

// HandleSubmit handles POST /signup - processes the signup form
func (h *SignupHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, "Invalid form data", nil)
		return
	}

	params := service.SignupParams{
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
	}

	user, token, err := h.userService.Signup(ctx, params)
	if err != nil {
		if fields := domain.GetValidationFields(err); fields != nil {
			h.renderForm(w, r, "", fields)
			return
		}
		if errors.Is(err, domain.ErrEmailTaken) {
			h.renderForm(w, r, "An account with this email already exists", nil)
			return
		}
		logger.Error("signup failed", "error", err)
		h.renderForm(w, r, "Failed to create account. Please try again.", nil)
		return
	}

	logger.Info("account created", "user_id", user.ID)

	// Signup logs the new account straight in
	h.cookies.SetSession(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginHandler handles the login page and form submission
type LoginHandler struct {
	userService service.UserService
	cookies     *cookie.Config
	renderer    *handler.Renderer
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(userService service.UserService, cookies *cookie.Config, renderer *handler.Renderer) *LoginHandler {
	return &LoginHandler{
		userService: userService,
		cookies:     cookies,
		renderer:    renderer,
	}
}

// ShowForm handles GET /login - displays the login form
func (h *LoginHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "", "")
}

func (h *LoginHandler) renderForm(w http.ResponseWriter, r *http.Request, formError, email string) {
	data := BaseTemplateData(r)
	if formError != "" {
		data["Error"] = formError
	}
	if email != "" {
		data["Email"] = email
	}
	data["ReturnTo"] = r.URL.Query().Get("return_to")
	h.renderer.RenderHTTP(w, "storefront/login", data)
}

// HandleSubmit handles POST /login - processes the login form
func (h *LoginHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, "Invalid form data", "")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.renderForm(w, r, "Email and password are required", email)
		return
	}

	_, token, err := h.userService.Login(ctx, service.LoginParams{
		Email:     email,
		Password:  password,
		UserAgent: r.UserAgent(),
		IP:        middleware.GetClientIP(r),
	})
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			h.renderForm(w, r, "Invalid email or password", email)
			return
		}
		h.renderForm(w, r, "Login failed. Please try again.", email)
		return
	}

	h.cookies.SetSession(w, token)

	returnTo := sanitizeReturnTo(r.FormValue("return_to"))
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// LogoutHandler handles user logout
type LogoutHandler struct {
	userService service.UserService
	cookies     *cookie.Config
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(userService service.UserService, cookies *cookie.Config) *LogoutHandler {
	return &LogoutHandler{
		userService: userService,
		cookies:     cookies,
	}
}

// HandleSubmit handles POST /logout - logs out the user
func (h *LogoutHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if token := cookie.GetSessionToken(r); token != "" {
		_ = h.userService.Logout(r.Context(), token)
	}

	h.cookies.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// sanitizeReturnTo only allows same-site relative redirects.
func sanitizeReturnTo(returnTo string) string {
	if returnTo == "" {
		return "/"
	}
	u, err := url.Parse(returnTo)
	if err != nil || u.IsAbs() || u.Host != "" || !startsWithSlash(u.Path) {
		return "/"
	}
	return returnTo
}

func startsWithSlash(p string) bool {
	return len(p) > 0 && p[0] == '/' && (len(p) == 1 || p[1] != '/')
}
