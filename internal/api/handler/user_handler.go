package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/famcare/caregiving-api/internal/api/metrics"
	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
	"github.com/famcare/caregiving-api/internal/pkg/pagination"
)

// forgotPasswordAck is returned whether or not the email is registered.
const forgotPasswordAck = "If the email is registered, a password reset link has been sent"

// UserHandler handles the account, authentication and dashboard endpoints.
type UserHandler struct {
	accounts  ports.AccountService
	dashboard ports.DashboardService
	messages  ports.MessageService
	log       zerolog.Logger
}

func NewUserHandler(accounts ports.AccountService, dashboard ports.DashboardService, messages ports.MessageService, log zerolog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, dashboard: dashboard, messages: messages, log: log}
}

// Register creates a new user account and mails a confirmation link.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  domain.PublicUser
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "success").Inc()
	return c.JSON(http.StatusCreated, toPublicUser(user))
}

// ConfirmEmail verifies the account behind a confirmation token.
//
// @Summary      Confirm email
// @Tags         users
// @Produce      json
// @Param        token  path      string  true  "Confirmation token"
// @Success      200    {object}  messageResponse
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/users/confirmation/{token} [get]
func (h *UserHandler) ConfirmEmail(c echo.Context) error {
	if err := h.accounts.ConfirmEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Email confirmed successfully"})
}

// Login authenticates a user and returns an access token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthEventsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		}
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// ForgotPassword mails a password reset link. The response is the same for
// registered and unknown emails.
//
// @Summary      Forgot password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/users/forgot-password [post]
func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		h.log.Info().Msg("password reset requested for unknown email")
	}
	return c.JSON(http.StatusOK, messageResponse{Message: forgotPasswordAck})
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/users/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been reset"})
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/users/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been changed"})
}

// Profile returns the caller's account.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublicUser(user))
}

// Dashboard returns the caller's message count and credit.
//
// @Summary      Get own dashboard
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Dashboard
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/home/dashboard [get]
func (h *UserHandler) Dashboard(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	d, err := h.dashboard.Dashboard(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// MyMessages returns the caller's messages, newest first.
//
// @Summary      List own messages
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "Page number"  default(1)
// @Param        pageSize  query     int  false  "Page size"    default(10)
// @Success      200       {object}  messagePage
// @Failure      401       {object}  errorResponse
// @Router       /api/users/home/my-messages [get]
func (h *UserHandler) MyMessages(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	msgs, err := h.messages.ListByUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	page, err := paginate(c, msgs, defaultListPageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// List returns every active account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "Page number"  default(1)
// @Param        pageSize  query     int  false  "Page size"    default(10)
// @Success      200       {object}  userPage
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	page, err := paginate(c, users, defaultListPageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.Map(page, toPublicUser))
}

// Get returns one account. Non-admins may only read their own.
//
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := selfOrAdmin(claims, id); err != nil {
		return err
	}

	user, err := h.accounts.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublicUser(user))
}

// Update applies a partial update to an account.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.PublicUser
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), c.Param("id"), toUpdateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublicUser(user))
}

// Delete soft-deletes an account. Admin accounts cannot be deleted.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.accounts.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// UpdateCredit adds the given amount, which may be negative, to the balance.
//
// @Summary      Adjust user credit
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "User ID"
// @Param        body  body      updateCreditRequest  true  "Credit delta"
// @Success      200   {object}  domain.PublicUser
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/users/{id}/credit [put]
func (h *UserHandler) UpdateCredit(c echo.Context) error {
	var req updateCreditRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateCredit(c.Request().Context(), c.Param("id"), req.Credit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublicUser(user))
}
