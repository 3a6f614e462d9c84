// Package blocklist implements the per-request IP and User-Agent filter.
//
// Both lists are re-read from the settings store on every request, so admin
// changes apply immediately without a restart. Matching is substring based on
// purpose: the lists hold fragments, not exact addresses or CIDR ranges.
package blocklist

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/db/controller/setting"
)

// New creates the filter middleware. trustedHeaders is the ordered list of
// proxy-supplied client-address headers the operator trusts; the first
// non-empty one wins, falling back to the socket address.
func New(db *gorm.DB, trustedHeaders []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientAddr := clientAddress(c, trustedHeaders)

		for _, blocked := range loadList(db, setting.KeyBlockedIPs) {
			if blocked != "" && strings.Contains(clientAddr, blocked) {
				log.Info().Str("ip", clientAddr).Str("match", blocked).Msg("request blocked by ip list")
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
			}
		}

		ua := strings.ToLower(c.Get(fiber.HeaderUserAgent))
		for _, blocked := range loadList(db, setting.KeyBlockedUAs) {
			if blocked != "" && strings.Contains(ua, strings.ToLower(blocked)) {
				log.Info().Str("ua", ua).Str("match", blocked).Msg("request blocked by user-agent list")
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
			}
		}

		return c.Next()
	}
}

// clientAddress resolves the client address using the trusted header order.
func clientAddress(c *fiber.Ctx, trustedHeaders []string) string {
	for _, header := range trustedHeaders {
		if v := c.Get(header); v != "" {
			return v
		}
	}

	return c.IP()
}

// loadList reads a blocklist setting and parses it as a JSON string array.
// An unreadable or unparseable list must not take the whole service down, so
// both cases log and yield an empty list.
func loadList(db *gorm.DB, key string) []string {
	value, err := setting.Get(db, key)
	if err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Str("key", key).Msg("failed to load blocklist setting")
		}

		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("blocklist setting is not a valid JSON array")
		return nil
	}

	return list
}
