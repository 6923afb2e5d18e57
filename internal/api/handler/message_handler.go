package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/famcare/caregiving-api/internal/api/metrics"
	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

// MessageHandler handles the family-member message endpoints.
type MessageHandler struct {
	messages ports.MessageService
}

func NewMessageHandler(messages ports.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List returns every message, newest first.
//
// @Summary      List family-member messages
// @Tags         family-members
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "Page number"  default(1)
// @Param        pageSize  query     int  false  "Page size"    default(10)
// @Success      200       {object}  messagePage
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /api/family-members [get]
func (h *MessageHandler) List(c echo.Context) error {
	msgs, err := h.messages.List(c.Request().Context())
	if err != nil {
		return err
	}
	page, err := paginate(c, msgs, defaultListPageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Create stores a message owned by the caller.
//
// @Summary      Create a family-member message
// @Tags         family-members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/family-members [post]
func (h *MessageHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messages.Create(c.Request().Context(), toCreateMessageInput(req, claims.UserID))
	if err != nil {
		return err
	}

	metrics.MessagesCreatedTotal.WithLabelValues(strconv.FormatBool(msg.Suspicious)).Inc()
	return c.JSON(http.StatusCreated, msg)
}

// ListByUser returns one user's messages, newest first. Non-admins may only
// list their own.
//
// @Summary      List messages of a user
// @Tags         family-members
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true   "User ID"
// @Param        page      query     int     false  "Page number"  default(1)
// @Param        pageSize  query     int     false  "Page size"    default(5)
// @Success      200       {object}  messagePage
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /api/family-members/user/{id} [get]
func (h *MessageHandler) ListByUser(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	userID := c.Param("id")
	if err := selfOrAdmin(claims, userID); err != nil {
		return err
	}

	msgs, err := h.messages.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	page, err := paginate(c, msgs, messagesByUserPerPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get returns one message to its owner or an admin.
//
// @Summary      Get a family-member message
// @Tags         family-members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  domain.Message
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/family-members/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	msg, err := h.ownedMessage(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

// UpdateStatus changes the status of a message.
//
// @Summary      Update message status
// @Tags         family-members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Message ID"
// @Param        body  body      updateMessageRequest  true  "New status"
// @Success      200   {object}  domain.Message
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/family-members/{id} [patch]
func (h *MessageHandler) UpdateStatus(c echo.Context) error {
	msg, err := h.ownedMessage(c)
	if err != nil {
		return err
	}
	var req updateMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.messages.UpdateStatus(c.Request().Context(), msg.ID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes a message.
//
// @Summary      Delete a family-member message
// @Tags         family-members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/family-members/{id} [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	if err := h.messages.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Message deleted successfully"})
}

// ownedMessage loads the :id message and checks the caller may access it.
func (h *MessageHandler) ownedMessage(c echo.Context) (*domain.Message, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return nil, err
	}

	msg, err := h.messages.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if !msg.OwnedBy(claims.UserID) && claims.Role() != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return msg, nil
}
