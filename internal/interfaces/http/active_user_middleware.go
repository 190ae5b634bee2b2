package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/todolap-api/internal/application/dto"
)

// activeChecker es el contrato mínimo que necesita el middleware para verificar al usuario.
// Lo implementa *usecase.UserUseCase; el uso de interfaz evita acoplar el router al use case.
type activeChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// RequireActiveUser verifica que el usuario del token siga existiendo y activo.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 Unauthorized → sin user_id en el contexto.
//   - 403 Forbidden    → usuario eliminado o desactivado.
//   - 503 Service Unavailable → fallo al consultar el almacenamiento.
func RequireActiveUser(checker activeChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Str("component", "http").Str("user_id", userID).Msg("verificación de usuario fallida")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "USER_INACTIVE",
				Message: "el usuario está inactivo o fue eliminado",
			})
		}

		return c.Next()
	}
}
