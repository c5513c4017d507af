package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multipartMessage = "From: PayPal Security <noreply@paypa1.example>\r\n" +
	"To: victim@example.com, other@example.com\r\n" +
	"Subject: =?UTF-8?Q?Action_required=21?=\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Verify your password at http://bit.ly/abc\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>Verify your <b>password</b></p>\r\n" +
	"--b1--\r\n"

const htmlOnlyMessage = "From: shop@shop.example\r\n" +
	"Subject: Receipt\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><p>Thanks for your order</p></body></html>\r\n"

func TestLoadEmail_Multipart(t *testing.T) {
	email, err := LoadEmail(strings.NewReader(multipartMessage), "message.eml", FormatAuto)
	require.NoError(t, err)

	assert.Equal(t, "PayPal Security <noreply@paypa1.example>", email.From)
	assert.Equal(t, []string{"victim@example.com", "other@example.com"}, email.To)
	assert.Equal(t, "Action required!", email.Subject)
	assert.Contains(t, email.Body, "Verify your password at http://bit.ly/abc")
	assert.NotContains(t, email.Body, "<b>")
	assert.Equal(t, "message.eml", email.Source)
	assert.Equal(t, []string{"1.0"}, headerValues(email.Headers, "MIME-Version"))
}

func headerValues(headers map[string][]string, key string) []string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func TestLoadEmail_HTMLOnly(t *testing.T) {
	email, err := LoadEmail(strings.NewReader(htmlOnlyMessage), "receipt", FormatAuto)
	require.NoError(t, err)

	assert.Equal(t, "Receipt", email.Subject)
	assert.Contains(t, email.Body, "Thanks for your order")
	assert.NotContains(t, email.Body, "<p>")
}

func TestLoadEmail_PlainText(t *testing.T) {
	text := "Dear customer,\nyour account is suspended."

	email, err := LoadEmail(strings.NewReader(text), "note.txt", FormatAuto)
	require.NoError(t, err)

	assert.Equal(t, text, email.Body)
	assert.Empty(t, email.From)
	assert.NotNil(t, email.Headers)
}

func TestLoadEmail_TextFormatKeepsHeaders(t *testing.T) {
	email, err := LoadEmail(strings.NewReader(htmlOnlyMessage), "receipt.eml", FormatText)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(email.Body, "From: shop@shop.example"))
}

func TestLoadEmail_ByteOrderMarks(t *testing.T) {
	utf8BOM := "\xef\xbb\xbfhello"
	email, err := LoadEmail(strings.NewReader(utf8BOM), "bom.txt", FormatText)
	require.NoError(t, err)
	assert.Equal(t, "hello", email.Body)

	// "hi" in UTF-16 little endian
	utf16 := "\xff\xfeh\x00i\x00"
	email, err = LoadEmail(strings.NewReader(utf16), "wide.txt", FormatText)
	require.NoError(t, err)
	assert.Equal(t, "hi", email.Body)
}

func TestLoadEmail_InvalidUTF8(t *testing.T) {
	email, err := LoadEmail(strings.NewReader("bad \xff byte"), "bad.txt", FormatText)
	require.NoError(t, err)
	assert.Equal(t, "bad  byte", email.Body)
}

func TestLoadEmail_UnsupportedFormat(t *testing.T) {
	_, err := LoadEmail(strings.NewReader("x"), "x", "pdf")
	assert.Error(t, err)
}

func TestLooksLikeMessage(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"From: a@example.com\n\nbody", true},
		{"\n\nSubject: hi\n\nbody", true},
		{"X-Mailer: test\n\nbody", true},
		{"Dear customer: please read", false},
		{"Note: this is plain text", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, looksLikeMessage([]byte(tt.text)), tt.text)
	}
}
