package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opencampus/wolfcafe/internal/auth"
	"github.com/opencampus/wolfcafe/internal/domain"
	"github.com/opencampus/wolfcafe/internal/webserver"
)

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/register", registerUser)
	webserver.ApiPOST("/auth/login", login)
	webserver.ApiPOST("/auth/staff", addStaff, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiPOST("/auth/marketers", addMarketer, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiPUT("/auth/users/:username", editUser, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiGET("/auth/users", listUsers, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiGET("/auth/customers", listCustomers, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiGET("/auth/staff", listStaff, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiGET("/auth/marketers", listMarketers, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiDELETE("/auth/users/:username", deleteUser, webserver.RequireRole(domain.RoleAdmin))
	webserver.ApiGET("/auth/check", checkAdminOrStaff)
}

type registerPayload struct {
	Realname string `json:"realname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func authService(c echo.Context) *auth.Service {
	return auth.NewService(GetDB(c), jwtSecret)
}

func registerUser(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username, email and password are required", nil)
	}

	user, err := authService(c).Register(c.Request().Context(),
		payload.Realname, payload.Username, payload.Email, payload.Password)
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername), errors.Is(err, auth.ErrDuplicateEmail):
		return fail(c, http.StatusConflict, "DUPLICATE_USER", err.Error(), nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to register user", err.Error())
	}
	return created(c, user)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", nil)
	}
	result, err := authService(c).Login(c.Request().Context(), payload.Username, payload.Password)
	switch {
	case errors.Is(err, auth.ErrBadCredentials), errors.Is(err, auth.ErrUserDisabled):
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid username or password", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Login failed", err.Error())
	}
	return ok(c, result)
}

func addStaff(c echo.Context) error {
	return addPreRegistered(c, domain.RoleStaff)
}

func addMarketer(c echo.Context) error {
	return addPreRegistered(c, domain.RoleMarketer)
}

func addPreRegistered(c echo.Context, role string) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse account", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Username == "" || payload.Email == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and email are required", nil)
	}

	svc := authService(c)
	var (
		user *domain.User
		err  error
	)
	if role == domain.RoleMarketer {
		user, err = svc.AddMarketer(c.Request().Context(), payload.Realname, payload.Username, payload.Email)
	} else {
		user, err = svc.AddStaff(c.Request().Context(), payload.Realname, payload.Username, payload.Email)
	}
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername), errors.Is(err, auth.ErrDuplicateEmail):
		return fail(c, http.StatusConflict, "DUPLICATE_USER", err.Error(), nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add account", err.Error())
	}
	logOperation(c, "add_"+role, "pre-registered "+user.Username)
	return created(c, user)
}

type editUserPayload struct {
	Username string `json:"username"`
	Realname string `json:"realname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func editUser(c echo.Context) error {
	var payload editUserPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse update", nil)
	}
	user, err := authService(c).EditUser(c.Request().Context(), c.Param("username"),
		payload.Username, payload.Realname, payload.Email, payload.Password)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	case errors.Is(err, auth.ErrDuplicateUsername), errors.Is(err, auth.ErrDuplicateEmail):
		return fail(c, http.StatusConflict, "DUPLICATE_USER", err.Error(), nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user", err.Error())
	}
	logOperation(c, "edit_user", "updated "+user.Username)
	return ok(c, user)
}

func listUsers(c echo.Context) error {
	return listUsersByRole(c, "")
}

func listCustomers(c echo.Context) error {
	return listUsersByRole(c, domain.RoleCustomer)
}

func listStaff(c echo.Context) error {
	return listUsersByRole(c, domain.RoleStaff)
}

func listMarketers(c echo.Context) error {
	return listUsersByRole(c, domain.RoleMarketer)
}

func listUsersByRole(c echo.Context, role string) error {
	users, err := authService(c).ListUsers(c.Request().Context(), role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}
	return ok(c, users)
}

func deleteUser(c echo.Context) error {
	username := c.Param("username")
	err := authService(c).DeleteUser(c.Request().Context(), username)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete user", err.Error())
	}
	logOperation(c, "delete_user", "deleted "+username)
	return ok(c, map[string]interface{}{"username": username})
}

func checkAdminOrStaff(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials", nil)
	}
	authorized := claims.Role == domain.RoleAdmin || claims.Role == domain.RoleStaff
	if !authorized {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "User is not staff or admin", nil)
	}
	return ok(c, map[string]interface{}{"authorized": true, "role": claims.Role})
}
