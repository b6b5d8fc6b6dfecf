package handlers

import (
	"crypto/subtle"

	"smsledger/internal/dto"
	"smsledger/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PairHandler struct {
	jwtManager    *auth.JWTManager
	pairingSecret string
	logger        *zap.Logger
}

func NewPairHandler(jwtManager *auth.JWTManager, pairingSecret string, logger *zap.Logger) *PairHandler {
	return &PairHandler{
		jwtManager:    jwtManager,
		pairingSecret: pairingSecret,
		logger:        logger,
	}
}

// Pair godoc
// @Summary Pair a device
// @Description Exchange the pairing secret for a device token
// @Tags auth
// @Accept json
// @Produce json
// @Router /pair [post]
func (h *PairHandler) Pair(c *fiber.Ctx) error {
	var req dto.PairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.DeviceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Device ID is required",
		})
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.pairingSecret)) != 1 {
		h.logger.Warn("Pairing attempt with wrong secret", zap.String("device_id", req.DeviceID))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid pairing secret",
		})
	}

	token, err := h.jwtManager.GenerateToken(req.DeviceID, req.DeviceName)
	if err != nil {
		h.logger.Error("Failed to generate device token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	h.logger.Info("Device paired",
		zap.String("device_id", req.DeviceID),
		zap.String("device_name", req.DeviceName),
	)
	return c.JSON(dto.PairResponse{Token: token})
}
