package handler

import (
	"mypage/internal/app/avatar"
	"mypage/internal/app/profile"
	"mypage/internal/app/storage"
	"mypage/internal/configs"
	"mypage/internal/identity"
	"mypage/internal/session"
)

// AppDeps bundles the collaborators shared by all HTTP handlers.
type AppDeps struct {
	Config       *configs.AppConfig
	Provider     identity.Provider
	Resolver     *session.Resolver
	Storage      storage.StorageService
	Profiles     profile.Repository
	Avatars      *avatar.Manager
	Coordinators *profile.CoordinatorRegistry
}

// secureCookies reports whether session cookies should carry the Secure flag.
func (d *AppDeps) secureCookies() bool {
	return d.Config.Environment != "development"
}
