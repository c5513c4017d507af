package whitelist

import (
	"strings"

	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

// Checker decides whether a sender belongs to a trusted domain
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new allowlist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(domains))
	list := make([]string, 0, len(domains))
	for _, domain := range domains {
		d := strings.ToLower(strings.TrimSpace(domain))
		d = strings.TrimPrefix(d, "@")
		if d == "" {
			continue
		}
		if _, ok := normalized[d]; !ok {
			normalized[d] = struct{}{}
			list = append(list, d)
		}
	}

	if len(list) > 0 && logger != nil {
		logger.Info("Initialized sender allowlist", zap.Strings("domains", list))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// Len returns the number of trusted domains
func (c *Checker) Len() int {
	return len(c.domains)
}

// IsWhitelisted checks if the sender's domain is trusted.
// from may be a bare address or a display-name address ("Bank <info@bank.com>").
func (c *Checker) IsWhitelisted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain := senderDomain(from)
	if domain == "" {
		return false
	}

	if _, ok := c.domains[domain]; ok {
		if c.logger != nil {
			c.logger.Debug("Sender domain is trusted",
				zap.String("domain", domain),
				zap.String("email", from))
		}
		return true
	}

	return false
}

func senderDomain(from string) string {
	address := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}

	parts := strings.Split(address, "@")
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	return strings.ToLower(strings.Trim(parts[1], "> "))
}
