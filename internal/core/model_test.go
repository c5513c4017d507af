package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelFromClass(t *testing.T) {
	label, err := LabelFromClass(0)
	require.NoError(t, err)
	assert.Equal(t, LabelLegitimate, label)

	label, err = LabelFromClass(1)
	require.NoError(t, err)
	assert.Equal(t, LabelPhishing, label)

	_, err = LabelFromClass(7)
	assert.Error(t, err)
}

func TestLabel_Text(t *testing.T) {
	data, err := json.Marshal(map[string]Label{"label": LabelPhishing})
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"Phishing"}`, string(data))

	var decoded map[string]Label
	require.NoError(t, json.Unmarshal([]byte(`{"label":"legitimate"}`), &decoded))
	assert.Equal(t, LabelLegitimate, decoded["label"])

	assert.Error(t, json.Unmarshal([]byte(`{"label":"spam"}`), &decoded))
}

func TestEmail_Text(t *testing.T) {
	email := &Email{
		From:    "support@shop.example",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Order",
		Body:    "Thanks",
	}
	assert.Equal(t, "From: support@shop.example\nTo: a@example.com, b@example.com\nSubject: Order\n\nThanks", email.Text())

	assert.Equal(t, "just text", (&Email{Body: "just text"}).Text())
}

func TestIndicatorReport_Counts(t *testing.T) {
	report := ScanIndicators("urgent: send your password and credit card!! http://bit.ly/x")

	assert.Equal(t, map[string]int{
		"suspicious_urls":        1,
		"urgent_phrases":         1,
		"personal_info_requests": 2,
		"suspicious_senders":     0,
		"grammar_issues":         1,
	}, report.Counts())
}
