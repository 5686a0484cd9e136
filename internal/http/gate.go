package httpx

import (
	"net/http"
	"net/url"

	"github.com/nestlink/nestlink-api/internal/domain/routes"
)

// RedirectToParam is the query parameter carrying the path a user should
// return to after logging in.
const RedirectToParam = "redirectTo"

// Gate returns the request gate middleware. It classifies every request
// against the route table and enforces two rules before any handler runs:
//
//   - A protected path with no authenticated session redirects to the login
//     page, carrying the original path so login can send the user back.
//   - The login page with an authenticated session redirects to the role's
//     landing page; a signed-in user never sees the login form.
//
// Everything else passes through. When a session exists it is placed in the
// request context regardless of classification, so downstream handlers never
// re-resolve the cookie.
func Gate(classification *routes.Classification, authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)

			if session != nil {
				if classification.IsLoginPath(r.URL.Path) {
					http.Redirect(w, r, classification.LandingFor(session.Role), http.StatusSeeOther)
					return
				}
				ctx := SetSessionInContext(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if classification.IsProtected(r.URL.Path) {
				http.Redirect(w, r, loginRedirectURL(classification.LoginPath(), r), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loginRedirectURL builds the login URL carrying the originally requested
// path (including its query string) as the post-login return destination.
func loginRedirectURL(loginPath string, r *http.Request) string {
	returnTo := safeRedirectPath(r.URL.RequestURI())

	u := url.URL{Path: loginPath}
	q := url.Values{}
	q.Set(RedirectToParam, returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}
