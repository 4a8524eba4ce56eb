package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"invoicing-backend/database"
	"invoicing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// idemAction is what the middleware does with a reserved or found key record.
type idemAction int

const (
	idemProceed  idemAction = iota // we reserved the key; run the handler
	idemReplay                     // completed earlier; send the stored response
	idemInFlight                   // someone else holds the key and hasn't finished
	idemMismatch                   // key reused with a different payload
)

// resolveIdempotency classifies a key record. created reports whether this
// request reserved the record itself; a pending record reserved by another
// request must not run the handler a second time.
func resolveIdempotency(rec *models.IdempotencyKey, reqHash string, created bool) idemAction {
	if rec.RequestHash != reqHash {
		return idemMismatch
	}
	if rec.ResponseStatus != 0 && rec.ResponseBody != nil {
		return idemReplay
	}
	if !created {
		return idemInFlight
	}
	return idemProceed
}

// Idempotency processes the Idempotency-Key header for mutating methods.
// The first request with a key records its response; retries with the same
// key and payload replay that response without re-running the handler.
// Reusing a key with a different payload is a conflict, and so is a retry
// that arrives while the first request is still in flight.
func Idempotency() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		path := c.OriginalURL() // includes query string
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(c.Body())
		reqHash := hex.EncodeToString(h.Sum(nil))

		// ---- Phase 1: read or reserve the key in a short transaction
		var existing models.IdempotencyKey
		replayed := false
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			created := false
			if err := tx.Where("key = ?", key).First(&existing).Error; err != nil {
				if err != gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				rec := models.IdempotencyKey{
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// Unique race: another request reserved it first.
					if e3 := tx.Where("key = ?", key).First(&existing).Error; e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
				} else {
					existing = rec
					created = true
				}
			}

			switch resolveIdempotency(&existing, reqHash, created) {
			case idemMismatch:
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			case idemReplay:
				replayed = true
				c.Status(existing.ResponseStatus)
				return c.Send([]byte(existing.ResponseBody))
			case idemInFlight:
				return fiber.NewError(fiber.StatusConflict, "request with this Idempotency-Key is still in progress, retry later")
			}
			return nil
		})
		if err != nil || replayed {
			return err
		}

		if err := c.Next(); err != nil {
			return err
		}

		// ---- Phase 2: store the response (best-effort; never break a
		// response that already succeeded)
		_ = database.DB.Transaction(func(tx *gorm.DB) error {
			now := time.Now().UTC()
			resp := c.Response().Body()
			blob := make([]byte, len(resp))
			copy(blob, resp)

			return tx.Model(&models.IdempotencyKey{}).
				Where("key = ?", key).
				Updates(map[string]any{
					"response_status": c.Response().StatusCode(),
					"response_body":   datatypes.JSON(blob),
					"completed_at":    &now,
				}).Error
		})

		return nil
	}
}
