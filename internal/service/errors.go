package service

import (
	"net/http"

	"go-blog-api/pkg/apierror"
)

func validationError(message string, details string) *apierror.APIError {
	return apierror.Validation(message, details)
}

func duplicateUser(details string) *apierror.APIError {
	return apierror.New(apierror.CodeDuplicateUser, "user with this username or email already exists", details, http.StatusConflict)
}

// invalidCredentials never says which part of the login was wrong.
func invalidCredentials() *apierror.APIError {
	return apierror.New(apierror.CodeInvalidCredentials, "invalid credentials", "", http.StatusUnauthorized)
}

func tokenMismatch() *apierror.APIError {
	return apierror.New(apierror.CodeTokenMismatch, "refresh token is expired or already used", "", http.StatusUnauthorized)
}

func missingAsset(details string) *apierror.APIError {
	return apierror.New(apierror.CodeMissingAsset, "an image upload is required", details, http.StatusBadRequest)
}
