package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"github.com/labstack/echo/v4"
)

type handlers struct {
	auth     AuthService
	products ProductService
	bookings BookingService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser is the user part of a login response.
type SessionUser struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type LoginResponse struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}

type profilePatchRequest struct {
	Username *string `json:"username"`
	Profile  *struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		PhotoURL  *string `json:"photoURL"`
	} `json:"profile"`
}

type statusRequest struct {
	Status models.BookingStatus `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return common.NewValidationError("request body is not valid JSON for this endpoint")
	}
	return nil
}

func uidOf(c echo.Context) (string, error) {
	claims, ok := ClaimsFrom(c)
	if !ok || claims.UID == "" {
		return "", services.ErrInvalidSession
	}
	return claims.UID, nil
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth ---

func (h *handlers) register(c echo.Context) error {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}

	profile, err := h.auth.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profile)
}

func (h *handlers) login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cred, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{
		User:  SessionUser{UID: cred.UID, Email: cred.Email, Username: cred.Username},
		Token: cred.Token,
	})
}

// --- users ---

func (h *handlers) getMe(c echo.Context) error {
	uid, err := uidOf(c)
	if err != nil {
		return err
	}

	profile, err := h.auth.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *handlers) patchMe(c echo.Context) error {
	uid, err := uidOf(c)
	if err != nil {
		return err
	}

	var req profilePatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	upd := services.ProfileUpdate{Username: req.Username}
	if req.Profile != nil {
		upd.FirstName = req.Profile.FirstName
		upd.LastName = req.Profile.LastName
		upd.PhotoURL = req.Profile.PhotoURL
	}

	profile, err := h.auth.UpdateProfile(c.Request().Context(), uid, upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// --- products ---

func (h *handlers) listProducts(c echo.Context) error {
	list, err := h.products.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *handlers) getProduct(c echo.Context) error {
	p, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handlers) createProduct(c echo.Context) error {
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}

	p, err := h.products.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *handlers) updateProduct(c echo.Context) error {
	var patch models.ProductPatch
	if err := bind(c, &patch); err != nil {
		return err
	}

	if err := h.products.Update(c.Request().Context(), c.Param("id"), patch); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product updated successfully"})
}

func (h *handlers) deleteProduct(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// --- bookings ---

func (h *handlers) listBookings(c echo.Context) error {
	list, err := h.bookings.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *handlers) getBooking(c echo.Context) error {
	b, err := h.bookings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) createBooking(c echo.Context) error {
	var in services.BookingInput
	if err := bind(c, &in); err != nil {
		return err
	}

	b, err := h.bookings.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *handlers) updateBookingStatus(c echo.Context) error {
	var req statusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	b, err := h.bookings.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) cancelBooking(c echo.Context) error {
	b, err := h.bookings.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
