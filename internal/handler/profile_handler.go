/*
Package handler provides HTTP handler functions for profile state and updates.
*/
package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"mypage/internal/app/avatar"
	"mypage/internal/app/profile"
	"mypage/internal/pkg/errs"
	"mypage/internal/pkg/logx"
	"mypage/internal/pkg/req"
	"mypage/internal/pkg/resp"
	"mypage/internal/session"
)

// HandleGetProfile returns the current user's profile state, hydrated the same
// way a server-rendered view mount hydrates its store.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		store := profile.NewStore()
		store.Hydrate(sess, fetchProfile(r, deps, sess))

		resp.RespondSuccess(w, r, map[string]any{
			"user": store.Get(),
		})
	}
}

// HandleUpdateProfile processes a profile form submission: optional avatar
// replacement followed by the coordinated metadata update.
//
// The submission walks the fixed sequence: validate the avatar candidate (if
// one was selected), upload the replacement, then persist the metadata through
// the user's update coordinator. An avatar upload failure aborts the whole
// submission before anything is persisted, so the old profile row and old
// avatar stay authoritative.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r)
		if sess == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		form := profile.FormFields{
			Name:      r.FormValue("name"),
			Introduce: r.FormValue("introduce"),
		}

		// The store for this submission: hydrated from the current row so the
		// previous avatar URL and the post-update state both come from it.
		store := profile.NewStore()
		store.Hydrate(sess, fetchProfile(r, deps, sess))
		previousAvatarURL := store.Get().AvatarURL

		var newAvatarURL *string

		upload, file, customErr := avatarFromForm(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if upload != nil {
			defer file.Close()

			if customErr := deps.Avatars.Validate(upload); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}

			url, customErr := deps.Avatars.Replace(r.Context(), sess.UserID, previousAvatarURL, upload)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			newAvatarURL = &url
		}

		updated, customErr := deps.Coordinators.ForUser(sess.UserID).Submit(r.Context(), sess.UserID, form, newAvatarURL)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		store.Set(profile.StateFrom(updated))

		resp.RespondSuccess(w, r, map[string]any{
			"message": "Profile updated.",
			"user":    store.Get(),
		})
	}
}

// avatarFromForm extracts the optional avatar file from the multipart form.
// No avatar part at all means the user did not touch the file input and the
// stored avatar stays as-is; a part with an empty file means they did and
// chose nothing, which is reported as NoFileSelected.
func avatarFromForm(r *http.Request) (*avatar.Upload, multipart.File, *errs.CustomError) {
	file, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}

		logx.Warn("failed to read avatar form part", "error", err)
		return nil, nil, errs.NewError(errs.ErrFormParseFailed)
	}

	if header.Filename == "" || header.Size == 0 {
		file.Close()
		return nil, nil, errs.NewError(errs.ErrNoFileSelected)
	}

	return &avatar.Upload{
		Body:     file,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
	}, file, nil
}
