package filter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/phishing-detector/internal/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Input formats accepted by LoadEmail
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatEML  = "eml"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Header names that mark the start of an RFC 5322 message
var messageHeaders = []string{
	"received", "return-path", "delivered-to", "from", "to", "subject", "date",
	"message-id", "mime-version", "content-type", "reply-to", "x-",
}

// LoadEmail reads an email from r. name is used for format detection and as the source.
func LoadEmail(r io.Reader, name string, format string) (*core.Email, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	switch format {
	case FormatAuto, "":
		if strings.EqualFold(filepath.Ext(name), ".eml") || looksLikeMessage(raw) {
			return parseMessage(raw, name)
		}
		return parseText(raw, name)
	case FormatEML:
		return parseMessage(raw, name)
	case FormatText:
		return parseText(raw, name)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// parseText decodes plain text. A UTF-16 byte order mark selects UTF-16,
// anything else is read as UTF-8 with invalid bytes dropped.
func parseText(raw []byte, name string) (*core.Email, error) {
	decoder := unicode.BOMOverride(transform.Nop)
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		decoded = raw
	}

	return &core.Email{
		Body:    strings.ToValidUTF8(string(decoded), ""),
		Headers: make(map[string][]string),
		Source:  name,
	}, nil
}

// parseMessage extracts headers and the text content of an RFC 5322 message
func parseMessage(raw []byte, name string) (*core.Email, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to parse email %s: %w", name, err)
	}

	header := mr.Header
	email := &core.Email{
		From:    header.Get("From"),
		Headers: make(map[string][]string),
		Source:  name,
	}

	if subject, err := header.Subject(); err == nil {
		email.Subject = subject
	} else {
		email.Subject = header.Get("Subject")
	}

	if to := header.Get("To"); to != "" {
		for _, rcpt := range strings.Split(to, ",") {
			if rcpt = strings.TrimSpace(rcpt); rcpt != "" {
				email.To = append(email.To, rcpt)
			}
		}
	}

	fields := header.Fields()
	for fields.Next() {
		email.Headers[fields.Key()] = append(email.Headers[fields.Key()], fields.Value())
	}

	body, err := extractTextFromMessage(mr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", name, err)
	}
	email.Body = strings.ToValidUTF8(body, "")

	return email, nil
}

// extractTextFromMessage collects text/plain parts, falling back to
// text/html with tags stripped when there is no plain text
func extractTextFromMessage(mr *mail.Reader) (string, error) {
	var plain, html bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what was read so far
			if plain.Len() > 0 || html.Len() > 0 {
				break
			}
			return "", err
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			// Skip attachments
			continue
		}

		contentType, _, _ := h.ContentType()
		switch {
		case contentType == "" || strings.HasPrefix(contentType, "text/plain"):
			if _, err := io.Copy(&plain, part.Body); err != nil {
				continue
			}
			plain.WriteString("\n")
		case strings.HasPrefix(contentType, "text/html"):
			if _, err := io.Copy(&html, part.Body); err != nil {
				continue
			}
			html.WriteString("\n")
		}
	}

	if plain.Len() > 0 {
		return plain.String(), nil
	}
	if html.Len() > 0 {
		return htmlTagPattern.ReplaceAllString(html.String(), " "), nil
	}
	return "", nil
}

// looksLikeMessage reports whether the first line is a well-known header
func looksLikeMessage(raw []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		colon := strings.Index(line, ":")
		if colon <= 0 {
			return false
		}
		key := strings.ToLower(line[:colon])
		if strings.ContainsAny(key, " \t") {
			return false
		}
		for _, h := range messageHeaders {
			if key == h || (strings.HasSuffix(h, "-") && strings.HasPrefix(key, h)) {
				return true
			}
		}
		return false
	}
	return false
}
