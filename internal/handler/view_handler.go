/*
Package handler provides the server-rendered view shells.

Layout and styling are deliberately minimal: what matters here is that every
gated view asks the session resolver for the current state, redirects when the
viewer does not belong, and hands a freshly hydrated profile state to the page
when they do.
*/
package handler

import (
	"errors"
	"html/template"
	"net/http"

	"mypage/internal/app/profile"
	"mypage/internal/identity"
	"mypage/internal/pkg/logx"
	"mypage/internal/session"
)

var (
	homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><title>mypage</title></head>
<body>
<header><a href="/">Home</a>
{{if .SignedIn}}<a href="/settings/profile">Profile</a>{{else}}<a href="/auth/login">Log in</a> <a href="/auth/signup">Sign up</a>{{end}}
</header>
<main>{{if .SignedIn}}<p>You are signed in.</p>{{else}}<p>You are not signed in.</p>{{end}}</main>
</body>
</html>
`))

	loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Log in - mypage</title></head>
<body>
<main>
<h1>Log in</h1>
<form method="post" action="/api/auth/login" data-client-form="login">
<input type="email" name="email" placeholder="Email" required>
<input type="password" name="password" placeholder="Password" required>
<button type="submit">Log in</button>
</form>
<p><a href="/auth/signup">Sign up</a></p>
</main>
</body>
</html>
`))

	signupTmpl = template.Must(template.New("signup").Parse(`<!DOCTYPE html>
<html>
<head><title>Sign up - mypage</title></head>
<body>
<main>
<h1>Sign up</h1>
<form method="post" action="/api/auth/signup" data-client-form="signup">
<input type="text" name="name" placeholder="Name" required>
<input type="email" name="email" placeholder="Email" required>
<input type="password" name="password" placeholder="Password" required>
<button type="submit">Sign up</button>
</form>
<p><a href="/auth/login">Log in</a></p>
</main>
</body>
</html>
`))

	profileTmpl = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html>
<head><title>Profile - mypage</title></head>
<body>
<main>
<h1>Profile</h1>
<form method="post" action="/api/profile" enctype="multipart/form-data" data-client-form="profile">
{{if .AvatarURL}}<img src="{{.AvatarURL}}" alt="avatar" width="96" height="96">{{else}}<img src="/default.png" alt="avatar" width="96" height="96">{{end}}
<input type="file" name="avatar" accept="image/jpeg,image/png">
<input type="text" name="name" value="{{.Name}}" placeholder="Name" required>
<textarea name="introduce" rows="5" placeholder="Introduce yourself">{{.Introduce}}</textarea>
<button type="submit">Save</button>
</form>
</main>
</body>
</html>
`))

	passwordTmpl = template.Must(template.New("password").Parse(`<!DOCTYPE html>
<html>
<head><title>Password - mypage</title></head>
<body>
<main>
<h1>Change password</h1>
<p>Password changes are handled by the identity provider.</p>
</main>
</body>
</html>
`))
)

// HandleHomeView renders the home page for both signed-in and anonymous
// viewers. A failed session resolution renders the anonymous variant.
func HandleHomeView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := struct{ SignedIn bool }{SignedIn: session.FromContext(r) != nil}
		renderView(w, homeTmpl, data)
	}
}

// HandleLoginView renders the login form. Authenticated viewers never reach
// this handler; the route gate redirects them home.
func HandleLoginView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderView(w, loginTmpl, nil)
	}
}

// HandleSignupView renders the signup form for anonymous viewers.
func HandleSignupView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderView(w, signupTmpl, nil)
	}
}

// HandleProfileView renders the profile editor. The view mount hydrates a
// fresh store from the resolved session and profile row, and the page renders
// from that state only, never from anything retained across mounts.
func HandleProfileView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r)

		store := profile.NewStore()
		store.Hydrate(sess, fetchProfile(r, deps, sess))

		renderView(w, profileTmpl, store.Get())
	}
}

// HandlePasswordView renders the password settings shell for authenticated viewers.
func HandlePasswordView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderView(w, passwordTmpl, nil)
	}
}

// fetchProfile loads the profile row for the session, or nil when there is no
// session or the row cannot be loaded. A load failure is logged, not fatal:
// the store still hydrates with the session identity.
func fetchProfile(r *http.Request, deps *AppDeps, sess *identity.Session) *profile.Profile {
	if sess == nil {
		return nil
	}

	prof, err := deps.Profiles.GetByID(r.Context(), sess.UserID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			logx.Error(err, "failed to load profile for view", "user_id", sess.UserID)
		}
		return nil
	}

	return prof
}

func renderView(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		logx.Error(err, "failed to render view", "template", tmpl.Name())
	}
}
