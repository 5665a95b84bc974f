package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

// UserHandler handles the user CRUD, listing and export endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns a page of users ordered by id ascending, optionally
// filtered by a case-insensitive substring match on name, email or phone.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        per_page  query     int     false  "Page size (1-100, default 10)"
// @Param        search    query     string  false  "Substring filter on name/email/phone"
// @Success      200       {object}  listUsersResponse
// @Failure      401       {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	search := strings.TrimSpace(c.QueryParam("search"))

	result, err := h.service.List(c.Request().Context(), page, perPage, search)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data:        result.Users,
		CurrentPage: result.CurrentPage,
		LastPage:    result.LastPage,
		PerPage:     result.PerPage,
		Total:       result.Total,
		From:        result.From,
		To:          result.To,
	})
}

// Get returns a single user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Create inserts a user with an admin-selected role. All violated fields
// are reported together.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User fields"
// @Success      201   {object}  userEnvelope
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userEnvelope{User: user})
}

// Update applies a partial update. Omitted or empty password keeps the
// stored hash; a present one is re-hashed.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userEnvelope
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	trimPtr(req.Name)
	trimPtr(req.Email)
	trimPtr(req.Phone)

	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Password != nil && *req.Password != "" {
		if req.PasswordConfirmation == nil || *req.PasswordConfirmation != *req.Password {
			return domain.NewValidationError().Add("password_confirmation", "The password confirmation does not match.")
		}
	}

	user, err := h.service.Update(c.Request().Context(), id, ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{User: user})
}

// Delete removes a user permanently.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// ExportCSV streams all users as a CSV attachment. The password hash
// column is excluded and the filename embeds the export date.
//
// @Summary      Export users as CSV
// @Tags         users
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      403  {object}  map[string]string
// @Router       /api/users/export/csv [get]
func (h *UserHandler) ExportCSV(c echo.Context) error {
	export, err := h.service.ExportCSV(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+export.Filename)
	return c.Blob(http.StatusOK, "text/csv", export.Data)
}

// parseID reads the :id path parameter. A non-numeric id cannot name any
// record, so it maps to the same 404 as a missing one.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrUserNotFound
	}
	return id, nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
