/*
Package handler provides HTTP handler functions for authentication.

These handlers are thin shells over the identity provider: credential
verification, token issuance and the email confirmation round-trip all happen
on the provider side. The handlers validate input locally, translate provider
outcomes into the application's error codes, and manage the session cookie.
*/
package handler

import (
	"errors"
	"net/http"

	"mypage/internal/app/profile"
	"mypage/internal/identity"
	"mypage/internal/pkg/errs"
	"mypage/internal/pkg/logx"
	"mypage/internal/pkg/req"
	"mypage/internal/pkg/resp"
	"mypage/internal/session"
)

// HandleSignup processes the request to register a new account.
// On success the provider has sent (or, for the local provider, logged) a
// confirmation link; no session is issued until the link is redeemed.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r) != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input profile.Credentials
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := profile.ValidateSignup(input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		redirectTo := deps.Config.SiteURL + "/auth/callback"
		err := deps.Provider.SignUp(r.Context(), input.Email, input.Password, input.Name, redirectTo)
		if err != nil {
			if errors.Is(err, identity.ErrEmailTaken) {
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailAlreadyRegistered))
				return
			}

			logx.Error(err, "signup rejected by identity provider")
			resp.RespondError(w, r, errs.NewError(errs.ErrSignupFailed))
			return
		}

		resp.RespondMessage(w, r, "A confirmation email has been sent. Please click the link inside it.")
	}
}

// HandleLogin verifies credentials with the identity provider and establishes
// the session cookie.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r) != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input profile.Credentials
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := profile.ValidateLogin(input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		sess, err := deps.Provider.SignIn(r.Context(), input.Email, input.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				logx.Warn("login: credentials rejected", "email", input.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
				return
			}

			logx.Error(err, "login: identity provider failure")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		session.SetCookie(w, sess.AccessToken, deps.secureCookies())

		resp.RespondSuccess(w, r, map[string]any{
			"user": map[string]any{
				"id":    sess.UserID,
				"email": sess.Email,
			},
		})
	}
}

// HandleSignout clears the session cookie. The provider token simply expires;
// there is no server-side session record to revoke.
func HandleSignout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.ClearCookie(w)
		resp.RespondMessage(w, r, "Signed out.")
	}
}

// HandleAuthCallback redeems the confirmation code from the signup email for a
// session and redirects home. A missing or unredeemable code still redirects
// home without a session rather than failing the render; the viewer simply
// lands on the anonymous experience.
func HandleAuthCallback(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")

		if code != "" {
			sess, err := deps.Provider.ExchangeCodeForSession(r.Context(), code)
			if err != nil {
				logx.Warn("auth callback: code exchange failed", "error", err)
			} else {
				session.SetCookie(w, sess.AccessToken, deps.secureCookies())
			}
		}

		http.Redirect(w, r, "/", http.StatusFound)
	}
}
