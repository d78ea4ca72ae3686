package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountBlocked      = errors.New("account is blocked")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrWrongPassword       = errors.New("old password is incorrect")
	ErrSamePassword        = errors.New("new password must differ from the old one")

	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmailTaken        = errors.New("email already exists")
	ErrCannotModifyAdmin = errors.New("super admin accounts cannot be modified")
	ErrCannotModifySelf  = errors.New("cannot change your own status")

	ErrPermissionNotFound       = errors.New("permission not found")
	ErrPermissionExists         = errors.New("permission already exists")
	ErrPermissionAlreadyGranted = errors.New("permission already assigned to user")
	ErrGrantNotFound            = errors.New("user does not have this permission")

	ErrNotFound        = errors.New("resource not found")
	ErrCategoryExists  = errors.New("category already exists")
	ErrCategoryInUse   = errors.New("category still has books")
	ErrCategoryMissing = errors.New("category does not exist")
	ErrWordExists      = errors.New("word already exists")
	ErrSlugTaken       = errors.New("a blog with this title already exists")
	ErrBookMissing     = errors.New("book does not exist")
	ErrSurahExists     = errors.New("surah with this chapter already exists")
	ErrSurahInUse      = errors.New("surah still has ayahs")
	ErrParaExists      = errors.New("para with this number already exists")
	ErrParaInUse       = errors.New("para still has ayahs")
	ErrAyahExists      = errors.New("ayah number already exists in this surah")
	ErrAyahParent      = errors.New("surah or para does not exist")
	ErrBookmarkExists  = errors.New("item already bookmarked")
	ErrBookmarkTarget  = errors.New("bookmarked item does not exist")
)
